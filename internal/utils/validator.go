// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	aadharPattern = regexp.MustCompile(`^[0-9]{12}$`)
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("aadhar", validateAadhar)
	validate.RegisterValidation("phone", validatePhone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// IsAadhar reports whether s is exactly twelve ASCII digits.
func IsAadhar(s string) bool {
	return aadharPattern.MatchString(s)
}

func validateAadhar(fl validator.FieldLevel) bool {
	return IsAadhar(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, fl.Field().String())
	return phonePattern.MatchString(phone)
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// HasTag reports whether any field failed the given tag.
func HasTag(errs []ValidationError, tag string) bool {
	for _, e := range errs {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind().String() == "string" {
			return e.Field() + " must be at least " + e.Param() + " characters"
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "aadhar":
		return "Invalid Aadhar Format. Must be 12 digits."
	case "phone":
		return "Invalid phone number"
	case "uuid":
		return e.Field() + " must be a valid id"
	default:
		return e.Field() + " is invalid"
	}
}
