package table

import "strings"

// Casting commits free-text edits as a column's declared type. Every cast is
// total (never fails with an error, unrepresentable input becomes absent) and
// idempotent on input that already has the target type, up to trimming.

// CastToString renders any value as a trimmed string. Nil values pass through
// unchanged; a string that is empty after trimming becomes absent.
func CastToString(v Value) Value {
	if v.IsNil() {
		return v
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return Absent()
	}
	return Str(s)
}

// CastToInt parses the leading integer of the value's string form.
func CastToInt(v Value) Value {
	s := CastToString(v)
	if s.IsNil() {
		return s
	}
	str, _ := s.StrVal()
	if n, ok := parseLeadingInt(str); ok {
		return Int(n)
	}
	return Absent()
}

// CastToBool matches the string form case-insensitively against
// "true"/"false"; anything else is absent.
func CastToBool(v Value) Value {
	s := CastToString(v)
	if s.IsNil() {
		return s
	}
	str, _ := s.StrVal()
	switch strings.ToLower(str) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	default:
		return Absent()
	}
}

// CastToStrArray splits the string form on the delimiter, trims each part and
// drops empties. An empty result is absent.
func CastToStrArray(v Value) Value {
	s := CastToString(v)
	if s.IsNil() {
		return s
	}
	str, _ := s.StrVal()
	var out []string
	for _, part := range strings.Split(str, Delimiter) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return Absent()
	}
	return StrArray(out)
}

// CastToIntArray splits the string form on the delimiter and parses each part
// as an integer, dropping parts that fail. An empty result is absent.
func CastToIntArray(v Value) Value {
	s := CastToString(v)
	if s.IsNil() {
		return s
	}
	str, _ := s.StrVal()
	var out []int64
	for _, part := range strings.Split(str, Delimiter) {
		if n, ok := parseLeadingInt(strings.TrimSpace(part)); ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return Absent()
	}
	return IntArray(out)
}

// CastToType dispatches to the cast matching the declared column type.
func CastToType(v Value, t ValueType) Value {
	switch t {
	case TypeInt:
		return CastToInt(v)
	case TypeStr:
		return CastToString(v)
	case TypeBool:
		return CastToBool(v)
	case TypeIntArray:
		return CastToIntArray(v)
	case TypeStrArray:
		return CastToStrArray(v)
	default:
		return Absent()
	}
}

// parseLeadingInt parses the longest integer prefix of s, the way a free-text
// edit like "42 items" should commit as 42 into an int column.
func parseLeadingInt(s string) (int64, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	var n int64
	neg := s[0] == '-'
	for _, c := range s[start:i] {
		n = n*10 + int64(c-'0')
		if n < 0 {
			// Overflow: saturate rather than fail, the cast must stay total.
			if neg {
				return -1 << 63, true
			}
			return 1<<63 - 1, true
		}
	}
	if neg {
		n = -n
	}
	return n, true
}
