package core

// NodeRecordHeader is the per-node framing header: the byte offset where
// the node (including its children) ends, the number of encoded
// properties, the byte length of the encoded property stream, and the
// length of the node's name. A header with all four fields zero is the
// null-record sentinel marking end-of-children.
type NodeRecordHeader struct {
	EndOffset       uint64
	NumProperties   uint64
	PropertyByteLen uint64
	NameLen         uint8
}

// ReadNodeRecordHeader reads a NodeRecordHeader in the layout selected by
// fbxVersion: three 32-bit fields widened to 64-bit for version < 7500,
// three native 64-bit fields for version >= 7500, followed in both cases
// by a single byte name length. It does not validate EndOffset against
// the source's position; that is the framing state machine's job.
func ReadNodeRecordHeader(s *ByteSource, fbxVersion int32) (NodeRecordHeader, error) {
	var endOffset, numProperties, propertyByteLen uint64

	if fbxVersion < 7500 {
		a, err := s.ReadU32()
		if err != nil {
			return NodeRecordHeader{}, err
		}
		b, err := s.ReadU32()
		if err != nil {
			return NodeRecordHeader{}, err
		}
		c, err := s.ReadU32()
		if err != nil {
			return NodeRecordHeader{}, err
		}
		endOffset, numProperties, propertyByteLen = uint64(a), uint64(b), uint64(c)
	} else {
		var err error
		endOffset, err = s.ReadU64()
		if err != nil {
			return NodeRecordHeader{}, err
		}
		numProperties, err = s.ReadU64()
		if err != nil {
			return NodeRecordHeader{}, err
		}
		propertyByteLen, err = s.ReadU64()
		if err != nil {
			return NodeRecordHeader{}, err
		}
	}

	nameLen, err := s.ReadU8()
	if err != nil {
		return NodeRecordHeader{}, err
	}

	return NodeRecordHeader{
		EndOffset:       endOffset,
		NumProperties:   numProperties,
		PropertyByteLen: propertyByteLen,
		NameLen:         nameLen,
	}, nil
}

// IsNullRecord reports whether h is the end-of-children sentinel: all
// four fields zero.
func (h NodeRecordHeader) IsNullRecord() bool {
	return h.EndOffset == 0 && h.NumProperties == 0 && h.PropertyByteLen == 0 && h.NameLen == 0
}
