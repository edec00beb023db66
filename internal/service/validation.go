package service

import (
	"fmt"

	"foodbank-inventory/pkg/validator"
)

// validateRequest runs struct tags and reports the first failure as a ValidationError
func validateRequest(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &ValidationError{Field: first.FailedField, Reason: describeTag(first.Tag, first.Value)}
}

func describeTag(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "must not be empty"
	case "gte":
		return fmt.Sprintf("must be at least %s", param)
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of %s", param)
	default:
		return fmt.Sprintf("failed on '%s'", tag)
	}
}
