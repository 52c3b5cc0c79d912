// Package validation decodes raw request payloads into per-operation input
// structs and checks them against rules declared in struct tags.
//
// Tags understood on each field:
//
//	json:"name"                       wire name of the field
//	rules:"required"                  field must be present and non-null
//	rules:"required_without=other"    required unless key "other" is present
//	rules:"allow_empty"               "" is accepted and treated as absent
//	rules:"allow_empty_if=other"      "" is accepted when key "other" is present
//	validate:"max=255,email"          go-playground/validator rules for present values
//	messages:"required=...;min=..."   per-rule message overrides
//
// Rules are checked in field declaration order and the first violation wins.
// Keys that are not declared are rejected after all declared fields pass.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error is a validation failure carrying the message of the first violated rule.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// MinKeyser is implemented by partial-update inputs that need at least n keys.
type MinKeyser interface {
	MinKeys() int
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

type fieldSpec struct {
	index           int
	name            string
	required        bool
	requiredWithout string
	allowEmpty      bool
	allowEmptyIf    string
	tag             string
	messages        map[string]string
}

var specCache sync.Map // reflect.Type -> []fieldSpec

func specsFor(t reflect.Type) []fieldSpec {
	if cached, ok := specCache.Load(t); ok {
		return cached.([]fieldSpec)
	}

	var specs []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		spec := fieldSpec{
			index:    i,
			name:     name,
			tag:      f.Tag.Get("validate"),
			messages: parseMessages(f.Tag.Get("messages")),
		}
		for _, rule := range strings.Split(f.Tag.Get("rules"), ",") {
			switch {
			case rule == "required":
				spec.required = true
			case rule == "allow_empty":
				spec.allowEmpty = true
			case strings.HasPrefix(rule, "required_without="):
				spec.requiredWithout = strings.TrimPrefix(rule, "required_without=")
			case strings.HasPrefix(rule, "allow_empty_if="):
				spec.allowEmptyIf = strings.TrimPrefix(rule, "allow_empty_if=")
			}
		}
		specs = append(specs, spec)
	}

	specCache.Store(t, specs)
	return specs
}

func parseMessages(tag string) map[string]string {
	if tag == "" {
		return nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(tag, ";") {
		key, msg, ok := strings.Cut(pair, "=")
		if ok {
			out[strings.TrimSpace(key)] = msg
		}
	}
	return out
}

// Bind decodes body into dst, which must be a pointer to a struct, and validates it.
// The returned error is an *Error for any client-side problem.
func Bind(body []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: dst must be a pointer to a struct, got %T", dst)
	}
	target := rv.Elem()

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return &Error{Field: "value", Message: `"value" must be of type object`}
	}

	specs := specsFor(target.Type())
	known := make(map[string]bool, len(specs))

	for _, spec := range specs {
		known[spec.name] = true
		if err := checkField(target.Field(spec.index), spec, raw); err != nil {
			return err
		}
	}

	if mk, ok := dst.(MinKeyser); ok {
		present := 0
		for key := range raw {
			if known[key] {
				present++
			}
		}
		if present < mk.MinKeys() {
			return &Error{
				Field:   "value",
				Message: fmt.Sprintf(`"value" must have at least %d key`, mk.MinKeys()) + plural(mk.MinKeys()),
			}
		}
	}

	var unknown []string
	for key := range raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &Error{Field: unknown[0], Message: fmt.Sprintf(`"%s" is not allowed`, unknown[0])}
	}

	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func checkField(field reflect.Value, spec fieldSpec, raw map[string]json.RawMessage) error {
	value, present := raw[spec.name]
	if present && isNull(value) {
		present = false
	}

	required := spec.required
	allowEmpty := spec.allowEmpty
	if spec.requiredWithout != "" {
		if _, other := raw[spec.requiredWithout]; !other {
			required = true
		}
	}
	if spec.allowEmptyIf != "" {
		if _, other := raw[spec.allowEmptyIf]; other {
			allowEmpty = true
		}
	}

	if !present {
		if required {
			return spec.fail("required", fmt.Sprintf(`"%s" is required`, spec.name))
		}
		return nil
	}

	if err := decodeInto(field, value); err != nil {
		return spec.fail("type", typeMessage(spec.name, field.Type()))
	}

	actual := reflect.Indirect(field)
	if actual.Kind() == reflect.String && actual.String() == "" {
		if allowEmpty {
			return nil
		}
		return spec.fail("empty", fmt.Sprintf(`"%s" is not allowed to be empty`, spec.name))
	}

	if spec.tag == "" {
		return nil
	}
	if err := validate.Var(actual.Interface(), spec.tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return spec.fail(fe.Tag(), ruleMessage(spec.name, fe, actual))
		}
		return err
	}
	return nil
}

func (s fieldSpec) fail(rule, fallback string) *Error {
	if msg, ok := s.messages[rule]; ok {
		return &Error{Field: s.name, Message: msg}
	}
	return &Error{Field: s.name, Message: fallback}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeInto unmarshals raw into field, allocating pointers and accepting
// numeric strings for integer fields.
func decodeInto(field reflect.Value, raw json.RawMessage) error {
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := decodeInto(ptr.Elem(), raw); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	err := json.Unmarshal(raw, field.Addr().Interface())
	if err == nil {
		return nil
	}

	if !isInteger(field.Kind()) {
		return err
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return err
	}
	n, convErr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if convErr != nil {
		return err
	}
	if isUnsigned(field.Kind()) {
		if n < 0 {
			return err
		}
		field.SetUint(uint64(n))
		return nil
	}
	field.SetInt(n)
	return nil
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return isUnsigned(k)
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
