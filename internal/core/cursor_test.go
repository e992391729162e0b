package core

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	mocks "github.com/lo48576/fbx-binary-reader/internal/testing"
	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

func magicHeader(version int32) []byte {
	buf := []byte(fbxMagic)
	buf = append(buf, 0x1a, 0x00)
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, uint32(version))
	return append(buf, v...)
}

func nullHeaderV7400() []byte {
	return make([]byte, 13) // 3x u32 + u8, all zero
}

func nodeHeaderV7400(endOffset, numProperties, propertyByteLen uint32, name string) []byte {
	buf := make([]byte, 13)
	binary.LittleEndian.PutUint32(buf[0:4], endOffset)
	binary.LittleEndian.PutUint32(buf[4:8], numProperties)
	binary.LittleEndian.PutUint32(buf[8:12], propertyByteLen)
	buf[12] = byte(len(name))
	return append(buf, []byte(name)...)
}

// appendNodeV7400 appends a full v7400-layout node record — header,
// properties, and its child-list null-record terminator — to data, then
// patches the header's end_offset field to the node's actual end
// position now that it's known.
func appendNodeV7400(data []byte, name string, numProperties uint32, properties []byte) []byte {
	headerOffset := len(data)
	data = append(data, nodeHeaderV7400(0, numProperties, uint32(len(properties)), name)...)
	data = append(data, properties...)
	data = append(data, nullHeaderV7400()...)
	binary.LittleEndian.PutUint32(data[headerOffset:headerOffset+4], uint32(len(data)))
	return data
}

// TestCursor_EmptyDocument covers spec scenario 1: an empty document.
func TestCursor_EmptyDocument(t *testing.T) {
	var data []byte
	data = append(data, magicHeader(7400)...)
	data = append(data, nullHeaderV7400()...)
	data = append(data, footerTail[:]...)

	c := NewCursor(bytes.NewReader(data))

	ev, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartFbx, ev.Kind)
	require.EqualValues(t, 7400, ev.Header.Version)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndFbx, ev.Kind)

	// Idempotent terminal: repeated pulls keep returning EndFbx.
	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndFbx, ev.Kind)
}

// TestCursor_SingleEmptyNode covers spec scenario 2.
func TestCursor_SingleEmptyNode(t *testing.T) {
	var data []byte
	data = append(data, magicHeader(7400)...)
	data = appendNodeV7400(data, "A", 0, nil)
	data = append(data, nullHeaderV7400()...) // document terminator

	c := NewCursor(bytes.NewReader(data))

	ev, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartFbx, ev.Kind)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartNode, ev.Kind)
	require.Equal(t, "A", ev.Name)
	require.Equal(t, 0, ev.Properties.NumProperties())

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndNode, ev.Kind)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndFbx, ev.Kind)
}

// TestCursor_ScalarPropertiesRoundTrip covers spec scenario 3.
func TestCursor_ScalarPropertiesRoundTrip(t *testing.T) {
	props := []byte{}
	props = append(props, 'I', 0x2a, 0x00, 0x00, 0x00)
	props = append(props, 'L', 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	props = append(props, 'F', 0x00, 0x00, 0x80, 0x3f)
	props = append(props, 'D', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f)

	var data []byte
	data = append(data, magicHeader(7400)...)
	data = appendNodeV7400(data, "P", 4, props)
	data = append(data, nullHeaderV7400()...)

	c := NewCursor(bytes.NewReader(data))

	_, err := c.Next() // StartFbx
	require.NoError(t, err)

	ev, err := c.Next() // StartNode
	require.NoError(t, err)
	require.Equal(t, EventStartNode, ev.Kind)

	dec := ev.Properties.Decoder()

	require.True(t, dec.Next())
	v, _ := dec.Value().I32()
	require.EqualValues(t, 42, v)

	require.True(t, dec.Next())
	v64, _ := dec.Value().I64()
	require.EqualValues(t, 1, v64)

	require.True(t, dec.Next())
	f32, _ := dec.Value().F32()
	require.Equal(t, float32(1.0), f32)

	require.True(t, dec.Next())
	f64, _ := dec.Value().F64()
	require.Equal(t, float64(1.0), f64)

	require.False(t, dec.Next())
	require.NoError(t, dec.Err())
}

// TestCursor_StringVsRawBytesCarrier covers spec scenario 4.
func TestCursor_StringVsRawBytesCarrier(t *testing.T) {
	utf8Props := []byte{'S', 2, 0, 0, 0, 'h', 'i'}
	rawProps := []byte{'S', 2, 0, 0, 0, 0xff, 0xfe}

	var data []byte
	data = append(data, magicHeader(7400)...)
	data = appendNodeV7400(data, "S1", 1, utf8Props)
	data = appendNodeV7400(data, "S2", 1, rawProps)
	data = append(data, nullHeaderV7400()...)

	c := NewCursor(bytes.NewReader(data))

	_, err := c.Next() // StartFbx
	require.NoError(t, err)

	ev1, err := c.Next() // StartNode S1
	require.NoError(t, err)
	dec1 := ev1.Properties.Decoder()
	require.True(t, dec1.Next())
	text, ok := dec1.Value().StringText()
	require.True(t, ok)
	require.Equal(t, "hi", text)

	_, err = c.Next() // EndNode S1
	require.NoError(t, err)

	ev2, err := c.Next() // StartNode S2
	require.NoError(t, err)
	dec2 := ev2.Properties.Decoder()
	require.True(t, dec2.Next())
	sr, ok := dec2.Value().StringOrRaw()
	require.True(t, ok)
	require.False(t, sr.IsText)
	require.Equal(t, []byte{0xff, 0xfe}, sr.Raw)
}

// TestCursor_Version7500Layout covers spec scenario 6.
func TestCursor_Version7500Layout(t *testing.T) {
	nodeHeader := make([]byte, 25) // 3x u64 + u8
	nullHeader := make([]byte, 25)
	endOffset := uint64(len(magicHeader(7500)) + len(nodeHeader) + len(nullHeader))
	binary.LittleEndian.PutUint64(nodeHeader[0:8], endOffset)
	// num_properties = 0, property_byte_len = 0, name_len = 0 (anonymous node)

	var data []byte
	data = append(data, magicHeader(7500)...)
	data = append(data, nodeHeader...)
	data = append(data, nullHeader...) // node's child-list terminator
	data = append(data, nullHeader...) // document terminator

	c := NewCursor(bytes.NewReader(data))

	ev, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartFbx, ev.Kind)
	require.EqualValues(t, 7500, ev.Header.Version)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartNode, ev.Kind)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndNode, ev.Kind)

	ev, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, EventEndFbx, ev.Kind)
}

func TestCursor_MagicMismatchFailsOnce(t *testing.T) {
	data := append([]byte("not an fbx file at all"), make([]byte, 10)...)
	c := NewCursor(bytes.NewReader(data))

	_, err := c.Next()
	require.Error(t, err)
	var parseErr *utils.Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, utils.KindInvalidMagic, parseErr.Kind)

	_, err2 := c.Next()
	require.Error(t, err2)
	require.Equal(t, err.Error(), err2.Error())
}

func TestCursor_ShortInputYieldsIoError(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	_, err := c.Next()
	require.Error(t, err)
	var parseErr *utils.Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, utils.KindIo, parseErr.Kind)
}

func TestCursor_NodeOverrunsEndOffsetIsDataError(t *testing.T) {
	var data []byte
	data = append(data, magicHeader(7400)...)
	// Declare an end_offset that is too small for the node's own header
	// plus its null-record terminator, so the framing machine detects the
	// mismatch once it reaches the terminator.
	data = append(data, nodeHeaderV7400(5, 0, 0, "A")...)
	data = append(data, nullHeaderV7400()...)
	data = append(data, nullHeaderV7400()...)

	c := NewCursor(bytes.NewReader(data))
	_, err := c.Next() // StartFbx
	require.NoError(t, err)
	_, err = c.Next() // StartNode
	require.NoError(t, err)
	_, err = c.Next() // the mismatched EndNode attempt
	require.Error(t, err)
	var parseErr *utils.Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, utils.KindDataError, parseErr.Kind)
}

func TestCursor_DiagnosticOnMagicTailMismatch(t *testing.T) {
	var data []byte
	data = append(data, []byte(fbxMagic)...)
	data = append(data, 0x00, 0x00) // wrong tail, should be 0x1a 0x00
	data = append(data, 0xE8, 0x1C, 0x00, 0x00)
	data = append(data, nullHeaderV7400()...)

	var diags []string
	c := NewCursor(bytes.NewReader(data))
	c.OnDiagnostic(func(d utils.Diagnostic) {
		diags = append(diags, d.Message)
	})

	_, err := c.Next()
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestCursor_EOFMidReadDoesNotAdvancePos(t *testing.T) {
	r := mocks.NewMockReader(magicHeader(7400)).WithEOFAt(len(fbxMagic))
	c := NewCursor(r)
	_, err := c.Next()
	require.Error(t, err)
	// The magic was consumed; the failed magic-tail read must not count.
	require.EqualValues(t, len(fbxMagic), c.Pos())
}
