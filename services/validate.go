package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "property-ops/errors"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the struct tags and flattens field errors into one
// ErrValidation-wrapped message.
func ValidateStruct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, ", "))
}
