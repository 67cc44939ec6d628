// Package validation registers the platform's field rules on gin's binding
// engine and converts binding failures into the shared error taxonomy.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"reviewhub/internal/api/apperr"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Register installs the custom validators on gin's shared binding engine.
// Call once at startup before any routes are served.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	RegisterOn(v)
}

// RegisterOn installs the custom validators on an arbitrary validator
// instance (used directly by tests).
func RegisterOn(v *validator.Validate) {
	// Report json tag names instead of Go field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		// "me" is reserved for the self-service endpoint, any letter case
		if strings.EqualFold(name, "me") {
			return false
		}
		return usernameRe.MatchString(name)
	})

	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})

	// The ceiling is the calendar year at validation time, recomputed on
	// every call rather than captured at startup.
	v.RegisterValidation("pastyear", func(fl validator.FieldLevel) bool {
		return int(fl.Field().Int()) <= time.Now().Year()
	})

	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "user", "moderator", "admin":
			return true
		}
		return false
	})
}

// ToAppError converts a gin binding error into a structured validation
// error naming each failing field. Non-validator errors (malformed JSON and
// the like) become a single-field report on the request body.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{
				Field:   fe.Field(),
				Message: messageFor(fe),
			})
		}
		return apperr.Validation("validation failed", fields...)
	}
	return apperr.Validation("invalid request body", apperr.FieldError{
		Field:   "body",
		Message: err.Error(),
	})
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_, and cannot be \"me\"", fe.Field())
	case "slug":
		return fmt.Sprintf("%s may contain only letters, digits, hyphens and underscores", fe.Field())
	case "pastyear":
		return fmt.Sprintf("%s cannot be in the future", fe.Field())
	case "role":
		return fmt.Sprintf("%s must be one of: user, moderator, admin", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
