package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/fitdemo/internal/domain"
)

// ErrNoValue is returned when a jsonpath expression matches nothing usable.
var ErrNoValue = errors.New("no value found")

// Value evaluates expr against an already decoded JSON document and returns
// the match as a string.
func Value(expr string, doc any) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", fmt.Errorf("empty jsonpath expression")
	}
	if doc == nil {
		return "", ErrNoValue
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		// jsonpath reports missing keys as errors; treat them as absent fields.
		return "", fmt.Errorf("%w: jsonpath %s: %v", ErrNoValue, expr, err)
	}
	if isEmptyValue(val) {
		return "", ErrNoValue
	}
	return toString(val)
}

// Token returns a TokenExtractor reading expr, typically "$.access".
// Absent, empty or non-string-convertible values yield ("", false).
func Token(expr string) domain.TokenExtractor {
	return func(body any) (string, bool) {
		s, err := Value(expr, body)
		if err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// jsonpath wildcards return a slice; a single match is unwrapped.
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
