package services

import (
	"errors"

	"github.com/tbourn/recettes/internal/observability"
	"github.com/tbourn/recettes/internal/repo"
)

// recordWrite counts a write attempt by outcome: refused input (validation,
// uniqueness, unknown dish) is "rejected", anything else failing is "error".
func recordWrite(entity, op string, err error) {
	outcome := observability.OutcomeOK
	if err != nil {
		outcome = observability.OutcomeError
		var ve *ValidationError
		switch {
		case errors.As(err, &ve) && (ve.Err == nil || repo.IsDuplicate(ve.Err)):
			outcome = observability.OutcomeRejected
		case errors.Is(err, ErrDishNotFound):
			outcome = observability.OutcomeRejected
		}
	}
	observability.RecordWrite(entity, op, outcome)
}
