package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StringifyDeep renders a payload for export: nulls become empty strings,
// arrays stringify element-wise, objects per field, scalars through their
// string form. The export endpoint expects uniformly stringly values. The
// payload is normalized through its JSON shape first, so typed values (cells,
// rows) stringify the way they serialize.
func StringifyDeep(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Sprint(v)
	}
	return stringifyJSON(raw)
}

func stringifyJSON(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = stringifyJSON(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = stringifyJSON(e)
		}
		return out
	default:
		return fmt.Sprint(x)
	}
}
