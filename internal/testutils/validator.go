package testutils

import (
	"github.com/go-playground/validator/v10"
)

// FailedFields returns the struct field names rejected by err, or nil when
// err is not a validator.ValidationErrors.
func FailedFields(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
