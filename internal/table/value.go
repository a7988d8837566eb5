// Package table defines the answer-table data model: typed cell values,
// columns, rows, rules, filters and the table container itself.
package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the declared type of a column.
type ValueType string

const (
	TypeStr      ValueType = "str"
	TypeInt      ValueType = "int"
	TypeBool     ValueType = "bool"
	TypeStrArray ValueType = "str_array"
	TypeIntArray ValueType = "int_array"
)

// IsArray reports whether the type holds multiple values per cell.
func (t ValueType) IsArray() bool {
	return t == TypeIntArray || t == TypeStrArray
}

// Single narrows an array type to its scalar counterpart. Scalar types are
// returned unchanged. This is the one-way narrowing used by column unwind;
// there is no inverse widening.
func (t ValueType) Single() ValueType {
	switch t {
	case TypeIntArray:
		return TypeInt
	case TypeStrArray:
		return TypeStr
	default:
		return t
	}
}

// Valid reports whether t is one of the five declared column types.
func (t ValueType) Valid() bool {
	switch t {
	case TypeStr, TypeInt, TypeBool, TypeStrArray, TypeIntArray:
		return true
	}
	return false
}

// ValueKind discriminates the closed union of cell value shapes.
type ValueKind uint8

const (
	// KindAbsent marks a cell that was never computed. Absent values are not
	// serialized into a row's cell map.
	KindAbsent ValueKind = iota
	// KindNull is an explicit "not found" answer from the backend.
	KindNull
	KindStr
	KindInt
	KindBool
	KindStrArray
	KindIntArray
)

// Delimiter joins array elements in the string form of a value and splits
// free-text edits when casting to an array type.
const Delimiter = ","

// Value is a cell value: one of null, string, int, bool, []string, []int, or
// absent. The zero Value is absent.
type Value struct {
	kind ValueKind
	str  string
	num  int64
	b    bool
	strs []string
	nums []int64
}

func Absent() Value             { return Value{} }
func Null() Value               { return Value{kind: KindNull} }
func Str(s string) Value        { return Value{kind: KindStr, str: s} }
func Int(n int64) Value         { return Value{kind: KindInt, num: n} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func StrArray(s []string) Value { return Value{kind: KindStrArray, strs: s} }
func IntArray(n []int64) Value  { return Value{kind: KindIntArray, nums: n} }

// Kind returns the discriminator of the union.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the cell was never computed.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNil reports whether the value carries no answer (absent or null).
func (v Value) IsNil() bool { return v.kind == KindAbsent || v.kind == KindNull }

// IsArray reports whether the value is one of the two array shapes.
func (v Value) IsArray() bool { return v.kind == KindStrArray || v.kind == KindIntArray }

// Len returns the element count for array values and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindStrArray:
		return len(v.strs)
	case KindIntArray:
		return len(v.nums)
	default:
		return 0
	}
}

// StrVal returns the string payload for KindStr values.
func (v Value) StrVal() (string, bool) { return v.str, v.kind == KindStr }

// IntVal returns the integer payload for KindInt values.
func (v Value) IntVal() (int64, bool) { return v.num, v.kind == KindInt }

// BoolVal returns the boolean payload for KindBool values.
func (v Value) BoolVal() (bool, bool) { return v.b, v.kind == KindBool }

// StrArrayVal returns the payload for KindStrArray values.
func (v Value) StrArrayVal() ([]string, bool) { return v.strs, v.kind == KindStrArray }

// IntArrayVal returns the payload for KindIntArray values.
func (v Value) IntArrayVal() ([]int64, bool) { return v.nums, v.kind == KindIntArray }

// Element returns the i-th element of an array value as a scalar Value.
// Non-array values and out-of-range indexes yield an absent value.
func (v Value) Element(i int) Value {
	switch v.kind {
	case KindStrArray:
		if i >= 0 && i < len(v.strs) {
			return Str(v.strs[i])
		}
	case KindIntArray:
		if i >= 0 && i < len(v.nums) {
			return Int(v.nums[i])
		}
	}
	return Absent()
}

// String renders the display form used for query substitution and export:
// arrays join their elements with the delimiter, booleans render as
// "true"/"false", nil values render empty.
func (v Value) String() string {
	switch v.kind {
	case KindStr:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindStrArray:
		return strings.Join(v.strs, Delimiter)
	case KindIntArray:
		parts := make([]string, len(v.nums))
		for i, n := range v.nums {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, Delimiter)
	default:
		return ""
	}
}

// Strings returns the value as a list of element string forms: scalars become
// a single-element list, arrays one entry per element, nil values an empty
// list. The filter engine compares against this expansion.
func (v Value) Strings() []string {
	switch v.kind {
	case KindStrArray:
		out := make([]string, len(v.strs))
		copy(out, v.strs)
		return out
	case KindIntArray:
		out := make([]string, len(v.nums))
		for i, n := range v.nums {
			out[i] = strconv.FormatInt(n, 10)
		}
		return out
	case KindAbsent, KindNull:
		return nil
	default:
		return []string{v.String()}
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindStr:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindStrArray:
		if len(v.strs) != len(o.strs) {
			return false
		}
		for i := range v.strs {
			if v.strs[i] != o.strs[i] {
				return false
			}
		}
		return true
	case KindIntArray:
		if len(v.nums) != len(o.nums) {
			return false
		}
		for i := range v.nums {
			if v.nums[i] != o.nums[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes the value in the backend's answer shape. Absent values
// marshal as null; callers that need the absent/null distinction must omit
// absent entries from the enclosing map before marshalling.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindStr:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindStrArray:
		if v.strs == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.strs)
	case KindIntArray:
		if v.nums == nil {
			return json.Marshal([]int64{})
		}
		return json.Marshal(v.nums)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any shape of the backend answer union. Numbers decode
// as integers (fractional parts truncate, matching the int column type).
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode cell value: %w", err)
	}
	*v = fromJSON(raw)
	return nil
}

func fromJSON(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case string:
		return Str(x)
	case bool:
		return Bool(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n)
		}
		if f, err := x.Float64(); err == nil {
			return Int(int64(f))
		}
		return Str(x.String())
	case []any:
		if len(x) == 0 {
			return StrArray([]string{})
		}
		if _, ok := x[0].(json.Number); ok {
			nums := make([]int64, 0, len(x))
			for _, e := range x {
				if num, ok := e.(json.Number); ok {
					if n, err := num.Int64(); err == nil {
						nums = append(nums, n)
						continue
					}
					if f, err := num.Float64(); err == nil {
						nums = append(nums, int64(f))
					}
				}
			}
			return IntArray(nums)
		}
		strs := make([]string, 0, len(x))
		for _, e := range x {
			strs = append(strs, fmt.Sprint(e))
		}
		return StrArray(strs)
	default:
		return Str(fmt.Sprint(x))
	}
}
