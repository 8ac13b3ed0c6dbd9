package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString converts various types to string. Whole floats render without a
// fractional part, so numeric identifiers decoded as float64 stay stable.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
