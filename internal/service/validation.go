package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/jobtracker-server/internal/model"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// RegisterValidation only fails for an empty tag name.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return model.JobStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("jobdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	})

	return v
}

// validationError converts validator output into a client-facing 400 error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}

	return model.NewErrValidation(problems...)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "jobstatus":
		statuses := make([]string, 0, len(model.JobStatuses))
		for _, status := range model.JobStatuses {
			statuses = append(statuses, string(status))
		}
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(statuses, ", "))
	case "jobdate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// emptyToNil maps absent and empty optional values to nil.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
