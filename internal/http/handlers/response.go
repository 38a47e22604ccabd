// Package handlers provides the HTML pages and the JSON API of the catalog.
//
// This file holds the JSON response helpers:
//   - fail() writes the ErrorResponse envelope and logs 5xx with the
//     request-scoped logger.
//   - notFoundJSON() writes the catalog's not-found document
//     {"erreur": "Impossible d'accéder à la requête"} used for unknown ids
//     and pages past the end.
//   - ok() writes a success document.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/http/middleware"
)

// msgNotFound is the message of the API's not-found document.
const msgNotFound = "Impossible d'accéder à la requête"

// ErrorResponse is the error envelope for server-side API failures.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"list_failed"`
	// Human-readable message
	Message string `json:"message" example:"database is locked"`
}

// NotFoundResponse is the document returned for anything the API cannot
// find.
type NotFoundResponse struct {
	Erreur string `json:"erreur" example:"Impossible d'accéder à la requête"`
}

// fail aborts the request with an ErrorResponse. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

func notFoundJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, NotFoundResponse{Erreur: msgNotFound})
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
