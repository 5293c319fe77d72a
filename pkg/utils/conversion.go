package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// plainNumber matches decimals without a leading zero, sign prefix "+",
// thousands separators or exponent, so zip codes and "+1..." phones stay text.
var plainNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// ToBool safely converts various types to boolean
// Handles bool, int, int64, float64, string ("1", "true", "yes", "on")
func ToBool(val interface{}) bool {
	if val == nil {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case int32:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []byte:
		// Raw DB bytes are often returned for TINYINT
		return parseBoolString(string(v))
	case string:
		return parseBoolString(v)
	default:
		return parseBoolString(fmt.Sprintf("%v", v))
	}
}

// parseBoolString parses boolean from string representation
func parseBoolString(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "1" || lower == "true" || lower == "yes" || lower == "on" || lower == "t" {
		return true
	}
	if b, err := strconv.ParseBool(lower); err == nil {
		return b
	}
	return false
}

// ToString renders a record value the way it is compared and validated.
// nil becomes "", []byte is decoded, and whole floats drop their fraction
// so a phone read as 5551234567.0 stays 5551234567.
func ToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return ToString(float64(v))
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converts numbers and numeric strings to float64
func ToFloat(val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case nil:
		return 0, fmt.Errorf("nil is not a number")
	default:
		return 0, fmt.Errorf("cannot convert %T to float", val)
	}
}

// IsBlank reports whether a value carries no data: nil, or a string/[]byte
// that is empty after trimming. Zero numbers and false are not blank.
func IsBlank(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return strings.TrimSpace(string(v)) == ""
	case float64:
		return math.IsNaN(v)
	}
	return false
}

// ParseCell turns a text cell into float64 when it is a plain decimal and
// returns it unchanged otherwise. Empty cells stay "".
func ParseCell(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if !plainNumber.MatchString(trimmed) {
		return cell
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return cell
	}
	return f
}
