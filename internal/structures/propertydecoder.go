package structures

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

// PropertyDecoder is a bufio.Scanner-style cursor over a PropertyBuffer's
// bytes: Next advances to the next value, Value returns it, and Err
// reports whether iteration stopped early because of malformed data
// rather than because the declared property count was exhausted.
//
// A decode failure inside one property never poisons anything beyond
// this decoder: the buffer it reads from is isolated from the cursor, so
// iteration simply halts early. Next properties are never revisited.
type PropertyDecoder struct {
	buf     []byte
	rest    int
	current PropertyValue
	err     error
	done    bool
	diags   []utils.Diagnostic
	onDiag  func(utils.Diagnostic)
}

func newPropertyDecoder(buf []byte, numProperties int) *PropertyDecoder {
	return &PropertyDecoder{buf: buf, rest: numProperties}
}

// OnDiagnostic registers fn to be called, in addition to being recorded
// on Diagnostics, as each non-fatal decode observation is made.
func (d *PropertyDecoder) OnDiagnostic(fn func(utils.Diagnostic)) {
	d.onDiag = fn
}

// Diagnostics returns every non-fatal observation made so far.
func (d *PropertyDecoder) Diagnostics() []utils.Diagnostic {
	return d.diags
}

func (d *PropertyDecoder) emit(message string) {
	diag := utils.Diagnostic{Message: message}
	d.diags = append(d.diags, diag)
	if d.onDiag != nil {
		d.onDiag(diag)
	}
}

// Err returns the error that stopped iteration early, or nil if
// iteration is still in progress or ended because the declared property
// count was exhausted.
func (d *PropertyDecoder) Err() error {
	return d.err
}

// Value returns the value produced by the most recent successful Next.
func (d *PropertyDecoder) Value() PropertyValue {
	return d.current
}

// SizeHint returns the number of values that may still be produced: an
// upper bound, not a guarantee, per the declared property count.
func (d *PropertyDecoder) SizeHint() int {
	return d.rest
}

// halt stops iteration, recording err and emitting a diagnostic describing
// it. err must be non-nil; clean declared-count exhaustion never calls
// halt at all.
func (d *PropertyDecoder) halt(err error, diagMessage string) {
	d.rest = 0
	d.done = true
	d.err = err
	d.emit(diagMessage)
}

func (d *PropertyDecoder) takeExact(n int) ([]byte, bool) {
	if len(d.buf) < n {
		return nil, false
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out, true
}

// Next decodes the next property, if any remain and the stream is not
// already truncated. It returns false once the declared count is
// exhausted or a malformed value halts iteration.
func (d *PropertyDecoder) Next() bool {
	if d.done || d.rest == 0 {
		return false
	}

	typeCodeBuf, ok := d.takeExact(1)
	if !ok {
		d.halt(utils.NewDataError("property data truncated: expected a type code"), "property stream ended before a type code")
		return false
	}
	typeCode := typeCodeBuf[0]

	switch typeCode {
	case 'C':
		b, ok := d.takeExact(1)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected a bool byte"), "property stream ended before a bool value")
			return false
		}
		if b[0] != 'T' && b[0] != 'Y' {
			d.emit("boolean property value is not canonical 'T'/'Y'")
		}
		d.current = NewBool(b[0]&1 == 1)

	case 'Y':
		b, ok := d.takeExact(2)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected 2 bytes for I16"), "property stream ended before an I16 value")
			return false
		}
		d.current = NewI16(int16(binary.LittleEndian.Uint16(b)))

	case 'I':
		b, ok := d.takeExact(4)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected 4 bytes for I32"), "property stream ended before an I32 value")
			return false
		}
		d.current = NewI32(int32(binary.LittleEndian.Uint32(b)))

	case 'L':
		b, ok := d.takeExact(8)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected 8 bytes for I64"), "property stream ended before an I64 value")
			return false
		}
		d.current = NewI64(int64(binary.LittleEndian.Uint64(b)))

	case 'F':
		b, ok := d.takeExact(4)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected 4 bytes for F32"), "property stream ended before an F32 value")
			return false
		}
		d.current = NewF32(math.Float32frombits(binary.LittleEndian.Uint32(b)))

	case 'D':
		b, ok := d.takeExact(8)
		if !ok {
			d.halt(utils.NewDataError("property data truncated: expected 8 bytes for F64"), "property stream ended before an F64 value")
			return false
		}
		d.current = NewF64(math.Float64frombits(binary.LittleEndian.Uint64(b)))

	case 'S':
		if !d.readLengthPrefixed(func(payload []byte) {
			if utf8.Valid(payload) {
				d.current = NewStringText(string(payload))
			} else {
				d.emit("string property value is not valid UTF-8; carried as raw bytes")
				d.current = NewStringRaw(payload)
			}
		}) {
			return false
		}

	case 'R':
		if !d.readLengthPrefixed(func(payload []byte) {
			d.current = NewBinary(payload)
		}) {
			return false
		}

	case 'b', 'i', 'l', 'f', 'd':
		val, consumed, err := decodeArray(d.buf, typeCode)
		if err != nil {
			d.halt(err, "array property payload truncated or malformed: "+err.Error())
			return false
		}
		d.buf = d.buf[consumed:]
		d.current = val

	default:
		d.halt(utils.NewUnexpectedValue("unknown property type code %#x", typeCode), "unknown property type code")
		return false
	}

	d.rest--
	if d.rest == 0 {
		d.done = true
	}
	return true
}

// readLengthPrefixed reads a u32 length then that many bytes, invoking fn
// with the payload on success. It returns false and halts the decoder on
// truncation.
func (d *PropertyDecoder) readLengthPrefixed(fn func(payload []byte)) bool {
	lenBuf, ok := d.takeExact(4)
	if !ok {
		d.halt(utils.NewDataError("property data truncated: expected a length prefix"), "property stream ended before a length prefix")
		return false
	}
	length := binary.LittleEndian.Uint32(lenBuf)

	if err := utils.ValidateBufferSize(uint64(length), utils.MaxPropertyByteLen, "string/binary property"); err != nil {
		d.halt(err, err.Error())
		return false
	}

	payload, ok := d.takeExact(int(length))
	if !ok {
		d.halt(utils.NewDataError("property data truncated: declared length %d exceeds remaining bytes", length), "property stream ended before its declared length")
		return false
	}
	fn(payload)
	return true
}
