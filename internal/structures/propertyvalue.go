// Package structures implements the node property model: the tagged
// property value type with its widening-accessor lattice, the array
// payload decoder, the owned per-node property buffer, and the property
// decoder iterator that produces values from it.
package structures

// ValueKind identifies which variant a PropertyValue carries.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindBinary
	KindVecBool
	KindVecI32
	KindVecI64
	KindVecF32
	KindVecF64
)

// String returns a short, stable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindI16:
		return "I16"
	case KindI32:
		return "I32"
	case KindI64:
		return "I64"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	case KindVecBool:
		return "VecBool"
	case KindVecI32:
		return "VecI32"
	case KindVecI64:
		return "VecI64"
	case KindVecF32:
		return "VecF32"
	case KindVecF64:
		return "VecF64"
	default:
		return "Unknown"
	}
}

// StringOrRaw carries a String property's payload: valid UTF-8 as Text
// (IsText true), or the raw bytes as Raw when decoding failed.
type StringOrRaw struct {
	Text   string
	Raw    []byte
	IsText bool
}

// PropertyValue is a single typed node property. Scalars, String, and
// Binary borrow their backing bytes from the owning PropertyBuffer; array
// variants are always owned, since a zlib-compressed array must be
// materialised regardless of encoding.
type PropertyValue struct {
	kind ValueKind

	b    bool
	i16  int16
	i32  int32
	i64  int64
	f32  float32
	f64  float64
	str  StringOrRaw
	bin  []byte
	vb   []bool
	vi32 []int32
	vi64 []int64
	vf32 []float32
	vf64 []float64
}

// Kind reports which variant v holds.
func (v PropertyValue) Kind() ValueKind {
	return v.kind
}

func NewBool(val bool) PropertyValue        { return PropertyValue{kind: KindBool, b: val} }
func NewI16(val int16) PropertyValue        { return PropertyValue{kind: KindI16, i16: val} }
func NewI32(val int32) PropertyValue        { return PropertyValue{kind: KindI32, i32: val} }
func NewI64(val int64) PropertyValue        { return PropertyValue{kind: KindI64, i64: val} }
func NewF32(val float32) PropertyValue      { return PropertyValue{kind: KindF32, f32: val} }
func NewF64(val float64) PropertyValue      { return PropertyValue{kind: KindF64, f64: val} }
func NewBinary(val []byte) PropertyValue    { return PropertyValue{kind: KindBinary, bin: val} }
func NewVecBool(val []bool) PropertyValue   { return PropertyValue{kind: KindVecBool, vb: val} }
func NewVecI32(val []int32) PropertyValue   { return PropertyValue{kind: KindVecI32, vi32: val} }
func NewVecI64(val []int64) PropertyValue   { return PropertyValue{kind: KindVecI64, vi64: val} }
func NewVecF32(val []float32) PropertyValue { return PropertyValue{kind: KindVecF32, vf32: val} }
func NewVecF64(val []float64) PropertyValue { return PropertyValue{kind: KindVecF64, vf64: val} }

// NewStringText builds a String property from a payload that decoded as
// valid UTF-8.
func NewStringText(text string) PropertyValue {
	return PropertyValue{kind: KindString, str: StringOrRaw{Text: text, IsText: true}}
}

// NewStringRaw builds a String property from a payload that failed UTF-8
// decoding; the original bytes are carried instead.
func NewStringRaw(raw []byte) PropertyValue {
	return PropertyValue{kind: KindString, str: StringOrRaw{Raw: raw}}
}

// --- Exact borrowing: no conversion, no consumption. ---

func (v PropertyValue) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v PropertyValue) I16() (int16, bool) {
	if v.kind != KindI16 {
		return 0, false
	}
	return v.i16, true
}

func (v PropertyValue) I32() (int32, bool) {
	if v.kind != KindI32 {
		return 0, false
	}
	return v.i32, true
}

func (v PropertyValue) I64() (int64, bool) {
	if v.kind != KindI64 {
		return 0, false
	}
	return v.i64, true
}

func (v PropertyValue) F32() (float32, bool) {
	if v.kind != KindF32 {
		return 0, false
	}
	return v.f32, true
}

func (v PropertyValue) F64() (float64, bool) {
	if v.kind != KindF64 {
		return 0, false
	}
	return v.f64, true
}

func (v PropertyValue) Binary() ([]byte, bool) {
	if v.kind != KindBinary {
		return nil, false
	}
	return v.bin, true
}

// StringText returns the text only when the String payload decoded as
// valid UTF-8.
func (v PropertyValue) StringText() (string, bool) {
	if v.kind != KindString || !v.str.IsText {
		return "", false
	}
	return v.str.Text, true
}

// StringOrRaw returns the String property's payload in whichever form it
// was decoded.
func (v PropertyValue) StringOrRaw() (StringOrRaw, bool) {
	if v.kind != KindString {
		return StringOrRaw{}, false
	}
	return v.str, true
}

func (v PropertyValue) VecBool() ([]bool, bool) {
	if v.kind != KindVecBool {
		return nil, false
	}
	return v.vb, true
}

func (v PropertyValue) VecI32() ([]int32, bool) {
	if v.kind != KindVecI32 {
		return nil, false
	}
	return v.vi32, true
}

func (v PropertyValue) VecI64() ([]int64, bool) {
	if v.kind != KindVecI64 {
		return nil, false
	}
	return v.vi64, true
}

func (v PropertyValue) VecF32() ([]float32, bool) {
	if v.kind != KindVecF32 {
		return nil, false
	}
	return v.vf32, true
}

func (v PropertyValue) VecF64() ([]float64, bool) {
	if v.kind != KindVecF64 {
		return nil, false
	}
	return v.vf64, true
}

// --- Exact owning: no conversion, consumes self. Not offered for
// String/Binary, which only ever borrow. On mismatch the original value
// is handed back so the caller can re-dispatch on it. ---

func (v PropertyValue) IntoBool() (bool, PropertyValue, bool) {
	if v.kind != KindBool {
		return false, v, false
	}
	return v.b, PropertyValue{}, true
}

func (v PropertyValue) IntoI16() (int16, PropertyValue, bool) {
	if v.kind != KindI16 {
		return 0, v, false
	}
	return v.i16, PropertyValue{}, true
}

func (v PropertyValue) IntoI32() (int32, PropertyValue, bool) {
	if v.kind != KindI32 {
		return 0, v, false
	}
	return v.i32, PropertyValue{}, true
}

func (v PropertyValue) IntoI64() (int64, PropertyValue, bool) {
	if v.kind != KindI64 {
		return 0, v, false
	}
	return v.i64, PropertyValue{}, true
}

func (v PropertyValue) IntoF32() (float32, PropertyValue, bool) {
	if v.kind != KindF32 {
		return 0, v, false
	}
	return v.f32, PropertyValue{}, true
}

func (v PropertyValue) IntoF64() (float64, PropertyValue, bool) {
	if v.kind != KindF64 {
		return 0, v, false
	}
	return v.f64, PropertyValue{}, true
}

func (v PropertyValue) IntoVecBool() ([]bool, PropertyValue, bool) {
	if v.kind != KindVecBool {
		return nil, v, false
	}
	return v.vb, PropertyValue{}, true
}

func (v PropertyValue) IntoVecI32() ([]int32, PropertyValue, bool) {
	if v.kind != KindVecI32 {
		return nil, v, false
	}
	return v.vi32, PropertyValue{}, true
}

func (v PropertyValue) IntoVecI64() ([]int64, PropertyValue, bool) {
	if v.kind != KindVecI64 {
		return nil, v, false
	}
	return v.vi64, PropertyValue{}, true
}

func (v PropertyValue) IntoVecF32() ([]float32, PropertyValue, bool) {
	if v.kind != KindVecF32 {
		return nil, v, false
	}
	return v.vf32, PropertyValue{}, true
}

func (v PropertyValue) IntoVecF64() ([]float64, PropertyValue, bool) {
	if v.kind != KindVecF64 {
		return nil, v, false
	}
	return v.vf64, PropertyValue{}, true
}

// --- Widening borrowing: lossless conversion (plus the two conventional
// float/int narrowings), no consumption. ---

// AsI32 widens I16, returns I32 as-is, or narrows I64 (conventionally
// lossy: the FBX ecosystem treats this narrowing as interchangeable
// with the wider type, the same way AsF32 narrows F64).
func (v PropertyValue) AsI32() (int32, bool) {
	switch v.kind {
	case KindI16:
		return int32(v.i16), true
	case KindI32:
		return v.i32, true
	case KindI64:
		return int32(v.i64), true
	default:
		return 0, false
	}
}

// AsI64 widens I16/I32 or returns I64 as-is.
func (v PropertyValue) AsI64() (int64, bool) {
	switch v.kind {
	case KindI16:
		return int64(v.i16), true
	case KindI32:
		return int64(v.i32), true
	case KindI64:
		return v.i64, true
	default:
		return 0, false
	}
}

// AsF32 returns F32 as-is, or narrows F64 (conventionally lossy: the
// FBX ecosystem treats float precision as interchangeable).
func (v PropertyValue) AsF32() (float32, bool) {
	switch v.kind {
	case KindF32:
		return v.f32, true
	case KindF64:
		return float32(v.f64), true
	default:
		return 0, false
	}
}

// AsF64 widens F32 or returns F64 as-is.
func (v PropertyValue) AsF64() (float64, bool) {
	switch v.kind {
	case KindF32:
		return float64(v.f32), true
	case KindF64:
		return v.f64, true
	default:
		return 0, false
	}
}

// --- Widening owning: elementwise conversion, consumes self. ---

// AsVecI32 returns VecI32 as-is, or narrows VecI64 elementwise
// (conventionally lossy, mirroring AsVecF32's narrowing of VecF64).
func (v PropertyValue) AsVecI32() ([]int32, bool) {
	switch v.kind {
	case KindVecI32:
		return v.vi32, true
	case KindVecI64:
		out := make([]int32, len(v.vi64))
		for i, x := range v.vi64 {
			out[i] = int32(x)
		}
		return out, true
	default:
		return nil, false
	}
}

// AsVecI64 widens VecI32 elementwise or returns VecI64 as-is.
func (v PropertyValue) AsVecI64() ([]int64, bool) {
	switch v.kind {
	case KindVecI32:
		out := make([]int64, len(v.vi32))
		for i, x := range v.vi32 {
			out[i] = int64(x)
		}
		return out, true
	case KindVecI64:
		return v.vi64, true
	default:
		return nil, false
	}
}

// AsVecF32 returns VecF32 as-is, or narrows VecF64 elementwise.
func (v PropertyValue) AsVecF32() ([]float32, bool) {
	switch v.kind {
	case KindVecF32:
		return v.vf32, true
	case KindVecF64:
		out := make([]float32, len(v.vf64))
		for i, x := range v.vf64 {
			out[i] = float32(x)
		}
		return out, true
	default:
		return nil, false
	}
}

// AsVecF64 widens VecF32 elementwise or returns VecF64 as-is.
func (v PropertyValue) AsVecF64() ([]float64, bool) {
	switch v.kind {
	case KindVecF32:
		out := make([]float64, len(v.vf32))
		for i, x := range v.vf32 {
			out[i] = float64(x)
		}
		return out, true
	case KindVecF64:
		return v.vf64, true
	default:
		return nil, false
	}
}
