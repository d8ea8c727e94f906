package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Booking type validation
	validate.RegisterValidation("booking_type", func(fl validator.FieldLevel) bool {
		bt := fl.Field().String()
		validTypes := []string{"private", "shared", "group"}
		for _, t := range validTypes {
			if bt == t {
				return true
			}
		}
		return false
	})

	// Add-on calculation type validation
	validate.RegisterValidation("calculation_type", func(fl validator.FieldLevel) bool {
		ct := fl.Field().String()
		validTypes := []string{"flat", "per_person", "per_adult", "per_3_guests"}
		for _, t := range validTypes {
			if ct == t {
				return true
			}
		}
		return false
	})

	// Experience category validation
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"tour", "workshop", "temple_visit", "ceremony", ""}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "uuid":
			errors[field] = "Invalid identifier"
		case "datetime":
			errors[field] = "Invalid date/time format (expected: " + err.Param() + ")"
		case "booking_type":
			errors[field] = "Invalid booking type. Must be: private, shared, or group"
		case "calculation_type":
			errors[field] = "Invalid calculation type. Must be: flat, per_person, per_adult, or per_3_guests"
		case "category":
			errors[field] = "Invalid category. Must be: tour, workshop, temple_visit, or ceremony"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
