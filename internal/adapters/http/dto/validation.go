package dto

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// QueryError reports query parameters that could not be used. Fields maps
// each offending parameter to a readable message; it is empty when the query
// could not be bound at all, e.g. limit=ten.
type QueryError struct {
	Fields map[string]string
	err    error
}

func (e *QueryError) Error() string { return "invalid query parameters: " + e.err.Error() }

func (e *QueryError) Unwrap() error { return e.err }

// queryValidator names fields after their form tag, which is the parameter
// the caller actually sent.
var queryValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
})

// BindQuery binds the request query into v and validates it. Any failure is
// a *QueryError.
func BindQuery(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return &QueryError{Fields: map[string]string{}, err: err}
	}

	return checkQuery(v)
}

func checkQuery(v any) error {
	err := queryValidator().Struct(v)
	if err == nil {
		return nil
	}

	qe := &QueryError{Fields: map[string]string{}, err: err}

	if fields, ok := err.(validator.ValidationErrors); ok { //nolint:errorlint // Struct returns the slice unwrapped
		for _, fe := range fields {
			qe.Fields[fe.Field()] = fieldMessage(fe)
		}
	}

	return qe
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}
