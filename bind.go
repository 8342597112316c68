package bapi

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report fields by the name clients send them with
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}

			return name
		})
	})

	return validate
}

// Bind decodes the request body into dst, a pointer to a struct, and validates it with the struct's
// "validate" tags. Fields are matched by their "json" tags whatever the parser: form values with a
// single value bind to a string field, repeated values to a []string field.
//
// A body that does not fit dst fails with [ErrParse] (400), a failed validation with [ErrValidation]
// (422) listing every offending field.
func Bind(r *Request, dst any) error {
	data, err := r.Data()
	if err != nil {
		return err
	}

	if vals, ok := data.(url.Values); ok {
		data = flattenValues(vals)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return parseError(errors.Wrap(err, "encode body for binding"))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return parseError(errors.Wrap(err, "bind body"))
	}

	return validateStruct(dst)
}

func flattenValues(vals map[string][]string) map[string]any {
	return lo.MapValues(vals, func(vs []string, _ string) any {
		if len(vs) == 1 {
			return vs[0]
		}

		return vs
	})
}

func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}

	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fe.Field() + ": " + describeTag(fe)
	})

	return NewError(CodeUnprocessableEntity, errors.Mark(errors.New(strings.Join(msgs, "; ")), ErrValidation))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
