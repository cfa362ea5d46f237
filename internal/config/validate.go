package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // compiled once
var sqlIdentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks cfg and returns one error naming every invalid field.
func Validate(cfg *Config) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s %s", strings.TrimPrefix(e.Namespace(), "Config."), friendlyMessage(e)))
	}
	sort.Strings(messages)
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "unique":
		return "must not repeat values"
	case "oneof":
		return fmt.Sprintf("must be one of: %s (got %q)", e.Param(), e.Value())
	case "timezone":
		return fmt.Sprintf("must be an IANA timezone (got %q)", e.Value())
	case "sqlident":
		return fmt.Sprintf("must be a plain SQL identifier (got %q)", e.Value())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
