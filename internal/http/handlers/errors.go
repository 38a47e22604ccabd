// Package handlers defines HTTP-layer error codes used by the JSON API.
//
// Codes are lowercase snake_case and mirror HTTP status semantics; they are
// carried in the `code` field of ErrorResponse so clients can branch on them
// without parsing messages. Lookups that find nothing answer with the
// catalog's own not-found document instead (see notFoundJSON).
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "list_failed",
//	  "message": "database is locked"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Catalog reads:
	ErrCodeListFailed   = "list_failed"
	ErrCodeLookupFailed = "lookup_failed"
)
