// Package core implements the framing state machine: the byte-source
// adapter, the node-record header, the event type, and the cursor that
// drives the non-recursive node-record tree walk.
package core

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

// ByteSource is a stateful sequential reader over an io.Reader offering
// typed little-endian primitive reads, with position tracking that only
// advances on a fully successful read: a failed read leaves Pos as if it
// had not been attempted, matching the atomic-per-primitive assumption
// typical of buffered streams.
type ByteSource struct {
	r   io.Reader
	pos uint64
}

// NewByteSource wraps r for sequential typed reads.
func NewByteSource(r io.Reader) *ByteSource {
	return &ByteSource{r: r}
}

// Pos returns the number of bytes consumed from the source so far.
func (s *ByteSource) Pos() uint64 {
	return s.pos
}

// fill reads exactly n bytes into a pooled scratch buffer. The caller
// must release the returned buffer.
func (s *ByteSource) fill(n int) ([]byte, error) {
	buf := utils.GetBuffer(n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		utils.ReleaseBuffer(buf)
		return nil, utils.NewIo(err)
	}
	s.pos += uint64(n)
	return buf, nil
}

// ReadExact reads exactly n bytes and returns a new, independently owned
// slice: callers attach it to long-lived values (node names, property
// buffers) that must outlive the pooled scratch space.
func (s *ByteSource) ReadExact(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	scratch, err := s.fill(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, scratch)
	utils.ReleaseBuffer(scratch)
	return out, nil
}

// ReadU8 reads one byte.
func (s *ByteSource) ReadU8() (uint8, error) {
	buf, err := s.fill(1)
	if err != nil {
		return 0, err
	}
	v := buf[0]
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (s *ByteSource) ReadU32() (uint32, error) {
	buf, err := s.fill(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(buf)
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (s *ByteSource) ReadU64() (uint64, error) {
	buf, err := s.fill(8)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(buf)
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadI16 reads a little-endian int16.
func (s *ByteSource) ReadI16() (int16, error) {
	buf, err := s.fill(2)
	if err != nil {
		return 0, err
	}
	v := int16(binary.LittleEndian.Uint16(buf))
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadI32 reads a little-endian int32.
func (s *ByteSource) ReadI32() (int32, error) {
	buf, err := s.fill(4)
	if err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(buf))
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadI64 reads a little-endian int64.
func (s *ByteSource) ReadI64() (int64, error) {
	buf, err := s.fill(8)
	if err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(buf))
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadF32 reads a little-endian IEEE-754 single.
func (s *ByteSource) ReadF32() (float32, error) {
	buf, err := s.fill(4)
	if err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(buf))
	utils.ReleaseBuffer(buf)
	return v, nil
}

// ReadF64 reads a little-endian IEEE-754 double.
func (s *ByteSource) ReadF64() (float64, error) {
	buf, err := s.fill(8)
	if err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(buf))
	utils.ReleaseBuffer(buf)
	return v, nil
}
