package services

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// isoMillis is the timestamp layout the API expects in query strings
const isoMillis = "2006-01-02T15:04:05.000Z"

// buildQuery converts filter values to query parameters. Nil pointers,
// empty strings, zero numbers and zero times are left out.
func buildQuery(params map[string]any) url.Values {
	q := url.Values{}
	for key, v := range params {
		if s, ok := queryValue(v); ok {
			q.Set(key, s)
		}
	}
	return q
}

func queryValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case int:
		return strconv.Itoa(val), val != 0
	case bool:
		return strconv.FormatBool(val), true
	case *bool:
		if val == nil {
			return "", false
		}
		return strconv.FormatBool(*val), true
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.UTC().Format(isoMillis), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return "", false
		}
		return val.UTC().Format(isoMillis), true
	default:
		return fmt.Sprint(val), true
	}
}
