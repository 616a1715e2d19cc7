package inbound

import (
	"reflect"
	"strings"

	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return user.ValidateUsername(fl.Field().String()) == nil
	})

	return v
}

// Validate checks a command's struct tags, returning a validation AppError
// with per-field messages
func Validate(cmd interface{}) error {
	if err := validate.Struct(cmd); err != nil {
		return errors.FromValidator(err)
	}
	return nil
}
