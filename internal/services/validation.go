package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/recettes/internal/domain"
)

var validate = newValidator()

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dishcategory", func(fl validator.FieldLevel) bool {
		_, ok := domain.CanonicalDishCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// check validates in against its struct tags and returns one message per
// failing field, in field declaration order. catalog maps
// "<Field>.<tag>" to the message to show.
func check(in any, catalog map[string]string) []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := catalog[fe.StructField()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.Error())
	}
	return out
}

func trim(s string) string { return strings.TrimSpace(s) }
