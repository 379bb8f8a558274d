// Package validation checks request segments (JSON bodies and path
// parameters) against the person rules and turns every violation into a
// field-level error the client can act on.
//
// Rules live in `validate` struct tags on the types package inputs and
// are executed by go-playground/validator. Before the rules run, the raw
// JSON is decoded field by field so that type mismatches are reported
// per field instead of aborting the whole decode. All rules are checked;
// a caller always receives the complete list of violations.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/people-api/internal/types"
)

// maxSafeInteger is the largest integer a JSON client can represent
// exactly as a double.
const maxSafeInteger = 1<<53 - 1

// FieldError is one violation, e.g.
//
//	{ "field": "email", "message": "\"email\" must be a valid email" }
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one request segment.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the offending field names in report order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, fe := range e {
		fields = append(fields, fe.Field)
	}
	return fields
}

// Validator is safe for concurrent use; build one at startup and share it.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the custom integer and safeint rules
// registered and field names reported by their JSON keys.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Both rules are only ever applied to float64 values produced by the
	// decoder below, so a non-float field is a programming error.
	validate.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
	})
	validate.RegisterValidation("safeint", func(fl validator.FieldLevel) bool {
		return math.Abs(fl.Field().Float()) <= maxSafeInteger
	})

	return &Validator{validate: validate}
}

// PersonID validates a raw {id} path segment: it must be a number, an
// integer, positive and exactly representable.
func (v *Validator) PersonID(raw string) (int64, Errors) {
	const field = "id"

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, Errors{{Field: field, Message: quote(field) + " must be a number"}}
	}

	if err := v.validate.Var(f, "integer,gt=0,safeint"); err != nil {
		return 0, v.translate(err, field)
	}

	return int64(f), nil
}

// CreatePerson validates a POST body. Unknown keys are dropped and
// string fields are trimmed before any rule runs.
func (v *Validator) CreatePerson(body []byte) (types.CreatePersonInput, Errors) {
	obj, errs := decodeObject(body)
	if errs != nil {
		return types.CreatePersonInput{}, errs
	}

	d := v.newDecoder(obj)
	var in types.CreatePersonInput
	if s := d.str("name"); s != nil {
		in.Name = *s
	}
	if s := d.str("email"); s != nil {
		in.Email = *s
	}
	in.Age = d.integer("age")

	errs = append(d.errs, d.skipFailed(v.translate(v.validate.Struct(in), ""))...)
	if len(errs) > 0 {
		return types.CreatePersonInput{}, errs
	}

	return in, nil
}

// UpdatePerson validates a PUT body. Every field is optional but at
// least one known field must be present; unknown keys do not count.
func (v *Validator) UpdatePerson(body []byte) (types.UpdatePersonInput, Errors) {
	obj, errs := decodeObject(body)
	if errs != nil {
		return types.UpdatePersonInput{}, errs
	}

	d := v.newDecoder(obj)
	in := types.UpdatePersonInput{
		Name:  d.str("name"),
		Email: d.str("email"),
		Age:   d.integer("age"),
	}

	errs = append(d.errs, d.skipFailed(v.translate(v.validate.Struct(in), ""))...)
	if len(errs) == 0 && len(d.failed) == 0 && in.IsEmpty() {
		errs = Errors{{Field: "value", Message: `"value" must have at least 1 key`}}
	}
	if len(errs) > 0 {
		return types.UpdatePersonInput{}, errs
	}

	return in, nil
}

// translate converts validator output into Errors. field overrides the
// reported name, which Var (no struct field) needs.
func (v *Validator) translate(err error, field string) Errors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: only reachable through a bad call site.
		return Errors{{Field: field, Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out = append(out, FieldError{Field: name, Message: message(name, fe)})
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	q := quote(field)

	switch fe.Tag() {
	case "required":
		return q + " is required"

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", q, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", q, fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", q, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", q, fe.Param())

	case "email":
		return q + " must be a valid email"

	case "integer":
		return q + " must be an integer"

	case "safeint":
		return q + " must be a safe number"

	case "gt":
		if fe.Param() == "0" {
			return q + " must be a positive number"
		}
		return fmt.Sprintf("%s must be greater than %s", q, fe.Param())

	default:
		return fmt.Sprintf("%s failed on the '%s' rule", q, fe.Tag())
	}
}

func quote(field string) string {
	return `"` + field + `"`
}

// decodeObject parses body as a JSON object. An empty body is an empty
// object; anything that is not an object is a single "body" error.
func decodeObject(body []byte) (map[string]json.RawMessage, Errors) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var obj map[string]json.RawMessage
	err := json.Unmarshal(body, &obj)

	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return nil, Errors{{Field: "body", Message: `"body" must be valid JSON`}}
	case err != nil, obj == nil:
		return nil, Errors{{Field: "body", Message: `"body" must be of type object`}}
	}

	return obj, nil
}

// decoder pulls typed fields out of a decoded object, recording a type
// error per bad field and remembering which fields failed so rule
// errors for the same field are not reported twice.
type decoder struct {
	v      *Validator
	obj    map[string]json.RawMessage
	errs   Errors
	failed map[string]bool
}

func (v *Validator) newDecoder(obj map[string]json.RawMessage) *decoder {
	return &decoder{v: v, obj: obj, failed: make(map[string]bool)}
}

func (d *decoder) fail(field, msg string) {
	d.errs = append(d.errs, FieldError{Field: field, Message: quote(field) + " " + msg})
	d.failed[field] = true
}

// str returns the trimmed string at key, or nil when the key is absent
// or holds a non-string.
func (d *decoder) str(key string) *string {
	raw, ok := d.obj[key]
	if !ok {
		return nil
	}

	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		d.fail(key, "must be a string")
		return nil
	}

	s = strings.TrimSpace(s)
	return &s
}

// integer returns the integral number at key, or nil when the key is
// absent or holds something else. Numeric strings are accepted.
func (d *decoder) integer(key string) *int {
	raw, ok := d.obj[key]
	if !ok {
		return nil
	}

	var n json.Number
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		d.fail(key, "must be a number")
		return nil
	}

	f, err := n.Float64()
	if err != nil {
		d.fail(key, "must be a number")
		return nil
	}

	if err := d.v.validate.Var(f, "integer"); err != nil {
		d.fail(key, "must be an integer")
		return nil
	}

	// Magnitudes beyond int32 are clamped; the min/max rules on the
	// field still reject them with the usual range message.
	f = math.Max(math.Min(f, math.MaxInt32), math.MinInt32)
	i := int(f)
	return &i
}

func (d *decoder) skipFailed(errs Errors) Errors {
	out := errs[:0]
	for _, fe := range errs {
		if !d.failed[fe.Field] {
			out = append(out, fe)
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
