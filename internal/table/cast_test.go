package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCastToString(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{"trims", Str("  hi  "), Str("hi")},
		{"empty becomes absent", Str("   "), Absent()},
		{"null passes through", Null(), Null()},
		{"absent passes through", Absent(), Absent()},
		{"int renders", Int(5), Str("5")},
		{"array joins", StrArray([]string{"a", "b"}), Str("a,b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CastToString(tt.in).Equal(tt.want))
		})
	}
}

func TestCastToInt(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{"plain", Str("42"), Int(42)},
		{"leading digits", Str("42 items"), Int(42)},
		{"negative", Str("-7"), Int(-7)},
		{"plus sign", Str("+3"), Int(3)},
		{"no digits", Str("many"), Absent()},
		{"sign only", Str("-"), Absent()},
		{"null passes through", Null(), Null()},
		{"int idempotent", Int(9), Int(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CastToInt(tt.in).Equal(tt.want))
		})
	}
}

func TestCastToBool(t *testing.T) {
	assert.True(t, CastToBool(Str("true")).Equal(Bool(true)))
	assert.True(t, CastToBool(Str("FALSE")).Equal(Bool(false)))
	assert.True(t, CastToBool(Str(" True ")).Equal(Bool(true)))
	assert.True(t, CastToBool(Str("yes")).IsAbsent())
	assert.True(t, CastToBool(Str("1")).IsAbsent())
	assert.True(t, CastToBool(Bool(true)).Equal(Bool(true)))
}

func TestCastToStrArray(t *testing.T) {
	assert.True(t, CastToStrArray(Str("a, b ,c")).Equal(StrArray([]string{"a", "b", "c"})))
	assert.True(t, CastToStrArray(Str(" , ,")).IsAbsent())
	assert.True(t, CastToStrArray(Null()).Equal(Null()))
	// Already an array: round-trips through the joined form.
	assert.True(t, CastToStrArray(StrArray([]string{"a", "b"})).Equal(StrArray([]string{"a", "b"})))
}

func TestCastToIntArray(t *testing.T) {
	assert.True(t, CastToIntArray(Str("1,2,3")).Equal(IntArray([]int64{1, 2, 3})))
	assert.True(t, CastToIntArray(Str("1, x, 3")).Equal(IntArray([]int64{1, 3})))
	assert.True(t, CastToIntArray(Str("x, y")).IsAbsent())
	assert.True(t, CastToIntArray(IntArray([]int64{4})).Equal(IntArray([]int64{4})))
}

// Casts never fail: every input shape maps to a value of the target type,
// null, or absent.
func TestCastToType_Total(t *testing.T) {
	inputs := []Value{
		Absent(), Null(), Str("x"), Str(""), Int(1), Bool(true),
		StrArray([]string{"a"}), IntArray([]int64{1}),
	}
	types := []ValueType{TypeStr, TypeInt, TypeBool, TypeStrArray, TypeIntArray}
	for _, typ := range types {
		for _, in := range inputs {
			out := CastToType(in, typ)
			if out.IsNil() {
				continue
			}
			switch typ {
			case TypeStr:
				assert.Equal(t, KindStr, out.Kind())
			case TypeInt:
				assert.Equal(t, KindInt, out.Kind())
			case TypeBool:
				assert.Equal(t, KindBool, out.Kind())
			case TypeStrArray:
				assert.Equal(t, KindStrArray, out.Kind())
			case TypeIntArray:
				assert.Equal(t, KindIntArray, out.Kind())
			}
		}
	}
}

func TestParseLeadingInt_OverflowSaturates(t *testing.T) {
	n, ok := parseLeadingInt("99999999999999999999")
	assert.True(t, ok)
	assert.Equal(t, int64(1<<63-1), n)

	n, ok = parseLeadingInt("-99999999999999999999")
	assert.True(t, ok)
	assert.Equal(t, int64(-1<<63), n)
}
