package structures

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

// elementSize maps an array property's type code to its element width in
// bytes, or 0 for an unrecognized code.
func elementSize(typeCode byte) int {
	switch typeCode {
	case 'b':
		return 1
	case 'i', 'f':
		return 4
	case 'l', 'd':
		return 8
	default:
		return 0
	}
}

// ArrayHeader is the 12-byte header preceding an array property's payload:
// the element count, the payload encoding (0 plain, 1 zlib-deflate), and
// the byte length of the payload that follows in the property stream.
type ArrayHeader struct {
	NumElements      uint32
	Encoding         uint32
	CompressedLength uint32
}

// arrayHeaderLen is the wire size of ArrayHeader: three little-endian
// uint32 fields.
const arrayHeaderLen = 4 * 3

// readArrayHeader decodes an ArrayHeader from the front of buf, returning
// the header and the number of bytes it consumed.
func readArrayHeader(buf []byte) (ArrayHeader, int, bool) {
	if len(buf) < arrayHeaderLen {
		return ArrayHeader{}, 0, false
	}
	return ArrayHeader{
		NumElements:      binary.LittleEndian.Uint32(buf[0:4]),
		Encoding:         binary.LittleEndian.Uint32(buf[4:8]),
		CompressedLength: binary.LittleEndian.Uint32(buf[8:12]),
	}, arrayHeaderLen, true
}

// arrayFilter decodes an array property's payload into the raw
// concatenation of little-endian element values, reversing whatever
// framing the encoding applied. It never reads past the bounds it is
// given.
type arrayFilter interface {
	Decode(compressed []byte, decodedLen int) ([]byte, error)
}

// plainFilter passes the payload through unchanged (encoding 0).
type plainFilter struct{}

func (plainFilter) Decode(compressed []byte, decodedLen int) ([]byte, error) {
	if len(compressed) != decodedLen {
		return nil, utils.NewDataError("plain array payload length mismatch: have %d, want %d", len(compressed), decodedLen)
	}
	return compressed, nil
}

// zlibFilter inflates a zlib-deflate stream (encoding 1).
type zlibFilter struct{}

func (zlibFilter) Decode(compressed []byte, decodedLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, utils.NewDataError("zlib array payload: %s", err)
	}
	defer func() { _ = zr.Close() }()

	out := make([]byte, decodedLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, utils.NewDataError("zlib array payload: %s", err)
	}
	return out, nil
}

func filterFor(encoding uint32) (arrayFilter, bool) {
	switch encoding {
	case 0:
		return plainFilter{}, true
	case 1:
		return zlibFilter{}, true
	default:
		return nil, false
	}
}

// decodeArray decodes an array property's typed elements: it reads the
// ArrayHeader from the front of buf, applies the filter selected by its
// encoding to the following CompressedLength bytes, and unpacks the
// little-endian elements named by typeCode into an owned PropertyValue.
// It returns the number of bytes of buf consumed (header + payload).
func decodeArray(buf []byte, typeCode byte) (PropertyValue, int, error) {
	header, headerLen, ok := readArrayHeader(buf)
	if !ok {
		return PropertyValue{}, 0, utils.NewDataError("array header truncated")
	}

	if err := utils.ValidateBufferSize(uint64(header.NumElements), utils.MaxArrayElements, "array element count"); err != nil {
		return PropertyValue{}, 0, err
	}
	if err := utils.ValidateBufferSize(uint64(header.CompressedLength), utils.MaxArrayCompressedLen, "array compressed payload"); err != nil {
		return PropertyValue{}, 0, err
	}

	rest := buf[headerLen:]

	if uint64(len(rest)) < uint64(header.CompressedLength) {
		return PropertyValue{}, 0, utils.NewDataError("array payload truncated: have %d bytes, want %d", len(rest), header.CompressedLength)
	}
	payload := rest[:header.CompressedLength]
	consumed := headerLen + int(header.CompressedLength)

	elemSize := elementSize(typeCode)
	if elemSize == 0 {
		return PropertyValue{}, 0, utils.NewDataError("unknown array element type code %#x", typeCode)
	}

	decodedLen, err := utils.ValidateArrayDecodedSize(uint64(header.NumElements), uint64(elemSize))
	if err != nil {
		return PropertyValue{}, 0, err
	}

	filter, ok := filterFor(header.Encoding)
	if !ok {
		return PropertyValue{}, 0, utils.NewDataError("unknown array encoding %d", header.Encoding)
	}

	var decoded []byte
	if decodedLen > 0 {
		// Skip invoking the filter on an empty array: there is no
		// payload to inflate, and a zero-length zlib stream would
		// otherwise need special-casing inside zlibFilter itself.
		decoded, err = filter.Decode(payload, int(decodedLen))
		if err != nil {
			return PropertyValue{}, 0, err
		}
	}

	val, err := unpackElements(decoded, header.NumElements, typeCode)
	if err != nil {
		return PropertyValue{}, 0, err
	}
	return val, consumed, nil
}

func unpackElements(decoded []byte, numElements uint32, typeCode byte) (PropertyValue, error) {
	switch typeCode {
	case 'b':
		out := make([]bool, numElements)
		for i := range out {
			out[i] = decoded[i]&1 == 1
		}
		return NewVecBool(out), nil
	case 'i':
		out := make([]int32, numElements)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(decoded[i*4 : i*4+4]))
		}
		return NewVecI32(out), nil
	case 'l':
		out := make([]int64, numElements)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(decoded[i*8 : i*8+8]))
		}
		return NewVecI64(out), nil
	case 'f':
		out := make([]float32, numElements)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(decoded[i*4 : i*4+4]))
		}
		return NewVecF32(out), nil
	case 'd':
		out := make([]float64, numElements)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(decoded[i*8 : i*8+8]))
		}
		return NewVecF64(out), nil
	default:
		return PropertyValue{}, fmt.Errorf("unreachable: unpackElements called with type code %#x", typeCode)
	}
}
