package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}

// toString renders a decoded JSON value the way JavaScript's String() does
// for the shapes a JSON body can carry.
func toString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			if item != nil {
				parts[i] = toString(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// formatNumber matches JavaScript's Number#toString: plain decimals, and
// exponent form when |v| >= 1e21 or |v| < 1e-6.
func formatNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case abs >= 1e21 || abs < 1e-6:
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		if n < 0 {
			return mantissa + "e-" + strconv.Itoa(-n)
		}
		return mantissa + "e+" + strconv.Itoa(n)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// toStrings converts an array to strings element-wise. Anything that is
// not an array becomes an empty list.
func toStrings(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = toString(item)
	}
	return out
}
