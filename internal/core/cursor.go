package core

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lo48576/fbx-binary-reader/internal/structures"
	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

// fbxMagic is the 21-byte document signature: two spaces before the
// trailing NUL.
const fbxMagic = "Kaydara FBX Binary  \x00"

// footerTail is the literal last 16 bytes observed in every FBX binary
// file regardless of writer; the footer is read-past rather than
// validated (§9: official writers pad to a 16-byte multiple, third-party
// writers do not), so this constant exists purely for callers who want to
// sanity-check a full file out of band — the cursor itself never reads it.
var footerTail = [16]byte{
	0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e,
	0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b,
}

// FooterTail returns the canonical last-16-bytes constant for callers
// validating a file out of band; the cursor never reads or checks it.
func FooterTail() [16]byte {
	return footerTail
}

type cursorState int

const (
	stateReadingMagic cursorState = iota
	stateReadingNodes
	stateFinished
	stateFailed
)

// Cursor drives the non-recursive framing state machine: it owns a byte
// source exclusively and exposes a blocking pull of Events. Once it
// returns an error, every subsequent call to Next returns a clone of that
// same error; once it returns EndFbx, every subsequent call returns
// EndFbx again.
type Cursor struct {
	source         *ByteSource
	state          cursorState
	version        int32
	endOffsetStack []uint64
	failed         *utils.Error

	maxPropertyByteLen      uint64
	ignoreMagicTailMismatch bool

	onDiagnostic func(utils.Diagnostic)
	diagnostics  []utils.Diagnostic
}

// Options tunes how a Cursor parses a document. The zero value selects
// the built-in defaults.
type Options struct {
	// MaxPropertyByteLen caps the declared byte length of a single
	// node's property block. Zero means use utils.MaxPropertyByteLen.
	MaxPropertyByteLen uint64
	// IgnoreMagicTailMismatch suppresses the diagnostic normally raised
	// when the two bytes following the magic header aren't [0x1a, 0x00].
	IgnoreMagicTailMismatch bool
}

// NewCursor constructs a Cursor over source, starting in the
// magic-reading state.
func NewCursor(source io.Reader) *Cursor {
	return NewCursorWithOptions(source, Options{})
}

// NewCursorWithOptions is like NewCursor but applies opts.
func NewCursorWithOptions(source io.Reader, opts Options) *Cursor {
	maxLen := opts.MaxPropertyByteLen
	if maxLen == 0 {
		maxLen = utils.MaxPropertyByteLen
	}
	return &Cursor{
		source:                  NewByteSource(source),
		state:                   stateReadingMagic,
		maxPropertyByteLen:      maxLen,
		ignoreMagicTailMismatch: opts.IgnoreMagicTailMismatch,
	}
}

// OnDiagnostic registers fn to be called for every non-fatal observation
// made while framing the document (currently: a mismatched magic-tail
// byte sequence). Property-decode diagnostics live on the PropertyDecoder
// obtained from a StartNode event's PropertyBuffer instead.
func (c *Cursor) OnDiagnostic(fn func(utils.Diagnostic)) {
	c.onDiagnostic = fn
}

// Diagnostics returns every non-fatal framing-level observation made so
// far.
func (c *Cursor) Diagnostics() []utils.Diagnostic {
	return c.diagnostics
}

func (c *Cursor) emit(message string) {
	diag := utils.Diagnostic{Message: message}
	c.diagnostics = append(c.diagnostics, diag)
	if c.onDiagnostic != nil {
		c.onDiagnostic(diag)
	}
}

// Pos returns the number of bytes consumed from the source so far.
func (c *Cursor) Pos() uint64 {
	return c.source.Pos()
}

// Next pulls the next Event from the underlying source.
func (c *Cursor) Next() (Event, error) {
	switch c.state {
	case stateFinished:
		return Event{Kind: EventEndFbx}, nil
	case stateFailed:
		return Event{}, c.failed.Clone()
	}

	var ev Event
	var err error
	if c.state == stateReadingMagic {
		ev, err = c.magicNext()
	} else {
		ev, err = c.nodesNext()
	}

	if err != nil {
		var parseErr *utils.Error
		if !errors.As(err, &parseErr) {
			parseErr = utils.NewIo(err)
		}
		c.failed = parseErr
		c.state = stateFailed
		return Event{}, parseErr
	}

	if ev.Kind == EventEndFbx {
		c.state = stateFinished
	}
	return ev, nil
}

func (c *Cursor) magicNext() (Event, error) {
	magic, err := c.source.ReadExact(len(fbxMagic))
	if err != nil {
		return Event{}, err
	}
	if string(magic) != fbxMagic {
		return Event{}, utils.NewInvalidMagic()
	}

	tail, err := c.source.ReadExact(2)
	if err != nil {
		return Event{}, err
	}
	if (tail[0] != 0x1a || tail[1] != 0x00) && !c.ignoreMagicTailMismatch {
		c.emit(fmt.Sprintf("expected [0x1a, 0x00] right after magic binary, but got %v", tail))
	}

	version, err := c.source.ReadI32()
	if err != nil {
		return Event{}, err
	}
	c.version = version
	c.state = stateReadingNodes

	return Event{Kind: EventStartFbx, Header: FbxHeaderInfo{Version: version}}, nil
}

func (c *Cursor) nodesNext() (Event, error) {
	// Defensive: a node whose last child's end exactly coincides with the
	// parent's end, with no null-record emitted by the writer. The
	// canonical end-of-children marker is the null record below; this
	// pre-check is retained for robustness per the format's own notes and
	// should not be removed without corpus evidence it is unreachable.
	if n := len(c.endOffsetStack); n > 0 {
		if c.endOffsetStack[n-1] == c.source.Pos() {
			c.endOffsetStack = c.endOffsetStack[:n-1]
			return Event{Kind: EventEndNode}, nil
		}
	}

	header, err := ReadNodeRecordHeader(c.source, c.version)
	if err != nil {
		return Event{}, err
	}

	if header.IsNullRecord() {
		if n := len(c.endOffsetStack); n > 0 {
			expected := c.endOffsetStack[n-1]
			c.endOffsetStack = c.endOffsetStack[:n-1]
			if c.source.Pos() == expected {
				return Event{Kind: EventEndNode}, nil
			}
			return Event{}, utils.NewDataError(
				"node does not end at expected position (expected %d, now at %d)",
				expected, c.source.Pos())
		}
		// Reached end of all nodes: extra NULL-record header is the
		// end marker of the implicit root node. A footer of unspecified
		// length follows; it is read-past rather than validated.
		return Event{Kind: EventEndFbx}, nil
	}

	c.endOffsetStack = append(c.endOffsetStack, header.EndOffset)

	nameBytes, err := c.source.ReadExact(int(header.NameLen))
	if err != nil {
		return Event{}, err
	}
	if !utf8.Valid(nameBytes) {
		return Event{}, utils.NewUtf8Error(fmt.Errorf("node name %q is not valid UTF-8", nameBytes))
	}

	if err := utils.ValidateBufferSize(header.PropertyByteLen, c.maxPropertyByteLen, "node property byte length"); err != nil {
		return Event{}, utils.NewDataError("%s", err)
	}

	propertyBytes, err := c.source.ReadExact(int(header.PropertyByteLen))
	if err != nil {
		return Event{}, err
	}

	buf := structures.NewPropertyBuffer(propertyBytes, int(header.NumProperties))

	return Event{Kind: EventStartNode, Name: string(nameBytes), Properties: buf}, nil
}
