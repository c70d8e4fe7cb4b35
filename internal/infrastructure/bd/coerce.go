package bd

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "niuniq/pkg/errors"
)

// ErrInvalidFilterValue is wrapped by every coercion failure.
var ErrInvalidFilterValue = errors.New("invalid filter value")

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func invalidValue(field string, value any) error {
	return apperrors.NewHttpError(http.StatusBadRequest,
		fmt.Sprintf("Invalid value %v for field %s", value, field),
		ErrInvalidFilterValue, map[string]any{"field": field})
}

// coerce converts a client supplied value to the Go type the column expects.
// A nil result means SQL NULL.
func coerce(field string, kind Kind, value any) (any, error) {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	if value == nil || value == "null" {
		return nil, nil
	}

	var (
		out any
		err error
	)
	switch kind {
	case KindText, KindTextArray:
		out, err = toText(value)
	case KindInt:
		out, err = toInt(value)
	case KindID:
		var n int64
		n, err = toInt(value)
		if err == nil && n < 1 {
			err = ErrInvalidFilterValue
		}
		out = n
	case KindFloat:
		out, err = toFloat(value)
	case KindBool:
		out, err = toBool(value)
	case KindTime:
		out, err = toTime(value)
	default:
		err = ErrInvalidFilterValue
	}
	if err != nil {
		return nil, invalidValue(field, value)
	}
	return out, nil
}

func toText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", ErrInvalidFilterValue
	}
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseInt(t, 10, 64)
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, ErrInvalidFilterValue
		}
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt64 || t < math.MinInt64 {
			return 0, ErrInvalidFilterValue
		}
		return int64(t), nil
	default:
		return 0, ErrInvalidFilterValue
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, ErrInvalidFilterValue
		}
		return f, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case float64:
		return t, nil
	default:
		return 0, ErrInvalidFilterValue
	}
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseBool(t)
	case bool:
		return t, nil
	default:
		return false, ErrInvalidFilterValue
	}
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
	}
	return time.Time{}, ErrInvalidFilterValue
}
