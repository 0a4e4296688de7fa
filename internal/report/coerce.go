package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field is the outcome of coercing one raw column: either a display value
// or a marker that the column's placeholder must be shown instead.
type Field struct {
	value string
	ok    bool
}

// Value wraps a successfully coerced display value
func Value(s string) Field {
	return Field{value: s, ok: true}
}

// Placeholder marks a field whose raw value was missing or unusable
func Placeholder() Field {
	return Field{}
}

// IsPlaceholder reports whether the raw value could not be used
func (f Field) IsPlaceholder() bool {
	return !f.ok
}

// Or returns the coerced value, or placeholder when there is none
func (f Field) Or(placeholder string) string {
	if !f.ok {
		return placeholder
	}
	return f.value
}

// rawText returns the textual form of a driver value, if it has one
func rawText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

// coerceOptionalText trims textual values; anything else is a placeholder
func coerceOptionalText(v any) Field {
	s, ok := rawText(v)
	if !ok {
		return Placeholder()
	}
	return Value(strings.TrimSpace(s))
}

// coerceOptionalInt truncates a numeric value to an integer. Blank and
// non-numeric text, NaN and infinities are placeholders.
func coerceOptionalInt(v any) (int64, bool) {
	var f float64
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		f = t
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		s, ok := rawText(v)
		if !ok {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceOptionalNumber renders a truncated integer
func coerceOptionalNumber(v any) Field {
	n, ok := coerceOptionalInt(v)
	if !ok {
		return Placeholder()
	}
	return Value(strconv.FormatInt(n, 10))
}

// coerceOptionalSquawk renders a squawk code as four digits. Negative values
// are not valid codes and print as plain integers like the other numbers.
func coerceOptionalSquawk(v any) Field {
	n, ok := coerceOptionalInt(v)
	if !ok {
		return Placeholder()
	}
	if n < 0 {
		return Value(strconv.FormatInt(n, 10))
	}
	return Value(fmt.Sprintf("%04d", n))
}

// coerceOptionalTimestamp extracts the time of day from a stored
// "YYYY-MM-DD hh:mm:ss[.fff]" timestamp
func coerceOptionalTimestamp(v any) Field {
	if t, ok := v.(time.Time); ok {
		return Value(t.Format("15:04:05"))
	}

	s, ok := rawText(v)
	if !ok {
		return Placeholder()
	}
	s = strings.TrimSpace(s)
	if len(s) <= len("2006-01-02 ") || (s[10] != ' ' && s[10] != 'T') {
		return Placeholder()
	}
	return Value(s[11:])
}

// coerceFlag interprets a BaseStation boolean column
func coerceFlag(v any) bool {
	if s, ok := rawText(v); ok {
		s = strings.TrimSpace(strings.ToLower(s))
		return s == "1" || s == "true"
	}
	n, ok := coerceOptionalInt(v)
	return ok && n == 1
}

// messageCount sums every slot that holds a number. Fractions are
// truncated; missing, non-numeric and negative slots count as zero.
func messageCount(slots []any) string {
	var total int64
	for _, slot := range slots {
		n, ok := coerceOptionalInt(slot)
		if !ok || n < 0 {
			continue
		}
		if total > math.MaxInt64-n {
			return strconv.FormatInt(math.MaxInt64, 10)
		}
		total += n
	}
	return strconv.FormatInt(total, 10)
}
