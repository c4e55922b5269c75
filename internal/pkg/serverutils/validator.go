package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries the first failing field in a readable form.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out.Fields = append(out.Fields, field+" is required")
		case "email":
			out.Fields = append(out.Fields, field+" must be a valid email")
		case "max":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "min":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			out.Fields = append(out.Fields, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return out
}
