// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage ports.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/auth"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// numeric would accept signs and decimals; contacts are plain ASCII digits.
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return s != ""
	})
	return v
}

// validateStruct runs the struct tags and folds every failure into one
// model.ErrValidation carrying a readable message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "digits":
		return field + " must contain only digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
}

// authorize maps an access decision to the failure taxonomy: no claims is
// unauthenticated, the wrong role is forbidden.
func authorize(actor *model.Claims, roles ...model.Role) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}
	if !auth.CanAccess(actor, roles...) {
		return model.ErrForbidden
	}
	return nil
}

func normalizeAttendee(a model.Attendee) model.Attendee {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Contact = strings.TrimSpace(a.Contact)
	return a
}

// trimmed trims *p in place and reports whether a set field became blank.
func trimmed(p *string) bool {
	if p == nil {
		return false
	}
	*p = strings.TrimSpace(*p)
	return *p == ""
}

func utcNow() time.Time { return time.Now().UTC() }
