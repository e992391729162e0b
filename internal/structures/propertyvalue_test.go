package structures

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyValue_ExactBorrowing(t *testing.T) {
	i16 := NewI16(7)
	v, ok := i16.I16()
	require.True(t, ok)
	require.EqualValues(t, 7, v)

	_, ok = i16.I32()
	require.False(t, ok)

	str := NewStringText("hi")
	text, ok := str.StringText()
	require.True(t, ok)
	require.Equal(t, "hi", text)

	raw := NewStringRaw([]byte{0xff, 0xfe})
	_, ok = raw.StringText()
	require.False(t, ok)

	sr, ok := raw.StringOrRaw()
	require.True(t, ok)
	require.False(t, sr.IsText)
	require.Equal(t, []byte{0xff, 0xfe}, sr.Raw)
}

func TestPropertyValue_ExactOwning(t *testing.T) {
	v := NewI32(42)
	got, _, ok := v.IntoI32()
	require.True(t, ok)
	require.EqualValues(t, 42, got)

	_, original, ok := v.IntoI64()
	require.False(t, ok)
	require.Equal(t, v, original, "failed exact-owning conversion hands back the original value")
}

func TestPropertyValue_WideningBorrowing(t *testing.T) {
	i16 := NewI16(5)
	v32, ok := i16.AsI32()
	require.True(t, ok)
	require.EqualValues(t, 5, v32)

	v64, ok := i16.AsI64()
	require.True(t, ok)
	require.EqualValues(t, 5, v64)

	f32 := NewF32(1.5)
	v, ok := f32.AsF64()
	require.True(t, ok)
	require.InDelta(t, 1.5, v, 1e-9)

	f64 := NewF64(2.5)
	vv, ok := f64.AsF32()
	require.True(t, ok)
	require.InDelta(t, 2.5, vv, 1e-6)

	i64 := NewI64(9)
	narrowed, ok := i64.AsI32()
	require.True(t, ok)
	require.EqualValues(t, 9, narrowed)

	_, ok = NewBool(true).AsI32()
	require.False(t, ok)
}

func TestPropertyValue_WideningOwning(t *testing.T) {
	vi32 := NewVecI32([]int32{1, 2, 3})
	vi64, ok := vi32.AsVecI64()
	require.True(t, ok)
	require.Equal(t, []int64{1, 2, 3}, vi64)

	vi64in := NewVecI64([]int64{4, 5})
	narrowed, ok := vi64in.AsVecI32()
	require.True(t, ok)
	require.Equal(t, []int32{4, 5}, narrowed)

	vf64 := NewVecF64([]float64{1.0, 2.0})
	vf32, ok := vf64.AsVecF32()
	require.True(t, ok)
	require.Equal(t, []float32{1.0, 2.0}, vf32)

	vf32in := NewVecF32([]float32{1.0, 2.0})
	widened, ok := vf32in.AsVecF64()
	require.True(t, ok)
	require.Equal(t, []float64{1.0, 2.0}, widened)

	_, ok = NewVecBool([]bool{true}).AsVecI64()
	require.False(t, ok)
}

func TestPropertyValue_Kind(t *testing.T) {
	require.Equal(t, KindBool, NewBool(true).Kind())
	require.Equal(t, KindBinary, NewBinary([]byte{1}).Kind())
	require.Equal(t, KindVecF64, NewVecF64(nil).Kind())
}
