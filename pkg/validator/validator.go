package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"catalog/pkg/clock"
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field '%s' failed on the '%s=%s' tag", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field, e.Tag)
}

// ValidationErrors is the result of a failed validation, one entry per field.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Map returns the errors keyed by field name.
func (v ValidationErrors) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, e := range v {
		m[e.Field] = e.Error()
	}
	return m
}

// Validator wraps go-playground/validator with the catalog's custom rules.
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
}

// New creates a Validator. The clock drives the days_ahead rule.
func New(c clock.Clock) *Validator {
	v := &Validator{validate: validator.New(), clock: c}

	// Report fields by their JSON names.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// days_ahead=N: the time must be more than N days after now.
	if err := v.validate.RegisterValidation("days_ahead", v.daysAhead); err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) daysAhead(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	days, err := cast.ToIntE(fl.Param())
	if err != nil {
		return false
	}
	return t.After(v.clock.Now().AddDate(0, 0, days))
}

// Struct validates s and returns ValidationErrors when any constraint fails.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()})
	}
	return out
}
