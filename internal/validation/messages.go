package validation

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

func typeMessage(name string, t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t.Kind() == reflect.String:
		return fmt.Sprintf(`"%s" must be a string`, name)
	case isInteger(t.Kind()):
		return fmt.Sprintf(`"%s" must be a number`, name)
	case t.Kind() == reflect.Bool:
		return fmt.Sprintf(`"%s" must be a boolean`, name)
	default:
		return fmt.Sprintf(`"%s" is invalid`, name)
	}
}

func ruleMessage(name string, fe validator.FieldError, value reflect.Value) string {
	isString := value.Kind() == reflect.String

	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf(`"%s" length must be at least %s characters long`, name, fe.Param())
		}
		return fmt.Sprintf(`"%s" must be greater than or equal to %s`, name, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf(`"%s" length must be less than or equal to %s characters long`, name, fe.Param())
		}
		return fmt.Sprintf(`"%s" must be less than or equal to %s`, name, fe.Param())
	case "email":
		return fmt.Sprintf(`"%s" must be a valid email`, name)
	case "url", "uri":
		return fmt.Sprintf(`"%s" must be a valid uri`, name)
	case "username":
		return fmt.Sprintf(`"%s" with value "%v" fails to match the required pattern: %s`,
			name, value.Interface(), "/"+usernamePattern.String()+"/")
	case "gt":
		return fmt.Sprintf(`"%s" must be greater than %s`, name, fe.Param())
	default:
		return fmt.Sprintf(`"%s" failed on the '%s' rule`, name, fe.Tag())
	}
}
