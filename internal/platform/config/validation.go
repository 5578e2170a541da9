package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key, so messages name the same
// dotted path an operator sets in YAML or APP_* variables.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})

	return v
}()

// Validate reports every invalid setting at once. Both binaries refuse to
// start on an invalid config.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	lines := make([]string, len(fields))
	for i, fe := range fields {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := keyOf(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return key + " is required when " + condition(key, fe.Param())
	case "required_unless":
		return key + " is required unless " + condition(key, fe.Param())
	case "min":
		return key + " must be at least " + fe.Param()
	case "max":
		return key + " must be at most " + fe.Param()
	case "oneof":
		return key + " must be one of: " + fe.Param()
	case "url":
		return key + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed the %q check", key, fe.Tag())
	}
}

// keyOf drops the root struct name: "Config.posts.base_url" is "posts.base_url".
func keyOf(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

// condition renders a "Field value" validator param against the sibling key,
// e.g. "Enabled true" on posts.base_url reads "posts.enabled is true".
func condition(key, param string) string {
	field, value, _ := strings.Cut(param, " ")

	sibling := strings.ToLower(field)
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		sibling = key[:i+1] + sibling
	}

	return sibling + " is " + value
}
