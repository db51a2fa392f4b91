package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
)

var validate = validator.New()

// FieldRule describes the constraints of one payload field. Constraints run in
// declaration order and a later failure replaces the message of an earlier one,
// so each field reports at most one violation.
type FieldRule struct {
	Field    string
	Label    string
	Type     FieldType
	Required bool

	// string constraints
	Alphanum bool
	Length   int
	Pattern  *regexp.Regexp

	// number constraints
	MaxDecimals int // < 0 disables the check
	NonNegative bool
}

type Schema []FieldRule

// Validate checks every rule against payload and returns the violations keyed by
// field. An empty map means the payload is valid.
func (s Schema) Validate(payload map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, rule := range s {
		value, present := payload[rule.Field]
		if !present || value == nil {
			if rule.Required {
				errs[rule.Field] = fmt.Sprintf("%q is required", rule.Label)
			}
			continue
		}

		if msg := rule.check(value); msg != "" {
			errs[rule.Field] = msg
		}
	}
	return errs
}

// Optional returns a copy of s with every field made optional.
func (s Schema) Optional() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i := range out {
		out[i].Required = false
	}
	return out
}

func (r FieldRule) check(value any) string {
	switch r.Type {
	case TypeNumber:
		return r.checkNumber(value)
	default:
		return r.checkString(value)
	}
}

func (r FieldRule) checkString(value any) string {
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%q must be a string", r.Label)
	}
	if s == "" {
		return fmt.Sprintf("%q is not allowed to be empty", r.Label)
	}

	var msg string
	if r.Alphanum && validate.Var(s, "alphanum") != nil {
		msg = fmt.Sprintf("%q must only contain alpha-numeric characters", r.Label)
	}
	if r.Length > 0 && validate.Var(s, fmt.Sprintf("len=%d", r.Length)) != nil {
		msg = fmt.Sprintf("%q length must be %d characters long", r.Label, r.Length)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(s) {
		msg = fmt.Sprintf("%q with value %q fails to match the required pattern: /%s/", r.Label, s, r.Pattern.String())
	}
	return msg
}

func (r FieldRule) checkNumber(value any) string {
	d, ok := NumberValue(value)
	if !ok {
		return fmt.Sprintf("%q must be a number", r.Label)
	}
	// Amounts are stored as float64, anything beyond its range is rejected.
	if math.IsInf(d.InexactFloat64(), 0) {
		return fmt.Sprintf("%q must be a finite number", r.Label)
	}

	var msg string
	if r.NonNegative && d.IsNegative() {
		msg = fmt.Sprintf("%q must be greater than or equal to 0", r.Label)
	}
	if r.MaxDecimals >= 0 && !d.Equal(d.Truncate(int32(r.MaxDecimals))) {
		msg = fmt.Sprintf("%q must have no more than %d decimal places", r.Label, r.MaxDecimals)
	}
	return msg
}

// NumberValue reports whether value is a JSON number and returns its exact
// decimal form. Numeric strings are not numbers.
func NumberValue(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case int32:
		return decimal.NewFromInt32(v), true
	default:
		return decimal.Zero, false
	}
}
