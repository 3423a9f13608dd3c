// Package validation wraps go-playground/validator so that domain inputs
// report every failing field in one apperror.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/vidshelf/pkg/apperror"
)

var (
	slugRegex = regexp.MustCompile(SlugPattern)

	once     sync.Once
	instance *validator.Validate
)

// SlugPattern is exported for callers that need to describe the rule.
const SlugPattern = `^[a-z0-9-]{3,30}$`

func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRegex.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s and converts failures into an apperror validation error
// keyed by JSON field name.
func Struct(s any) error {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInvalidInput("validation failed", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return apperror.NewValidation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must be 3-30 lowercase letters, digits or hyphens"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
