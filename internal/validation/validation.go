// Package validation turns binding failures into single, human readable
// messages naming the first offending field by its label.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setup sync.Once

// Setup makes gin's validator report fields by their `label` tag.
func Setup() {
	setup.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			if j := strings.Split(f.Tag.Get("json"), ",")[0]; j != "" && j != "-" {
				return j
			}
			return f.Name
		})
	})
}

// Message describes the first violation in err.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body."
	}
	fe := verrs[0]
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", label)
	case "email":
		return fmt.Sprintf("%q must be a valid email", label)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", label, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", label, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", label, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%q must be a valid uri", label)
	}
	return fmt.Sprintf("%q is invalid", label)
}
