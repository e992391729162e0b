package fbx

import (
	"github.com/lo48576/fbx-binary-reader/internal/core"
	"github.com/lo48576/fbx-binary-reader/internal/structures"
	"github.com/lo48576/fbx-binary-reader/internal/utils"
)

// Event, EventKind, FbxHeaderInfo, and the property-value types are
// re-exported directly from internal/core and internal/structures,
// following the same convention the rest of the package uses for
// returning lower-layer types from public API calls.
type (
	Event           = core.Event
	EventKind       = core.EventKind
	FbxHeaderInfo   = core.FbxHeaderInfo
	Diagnostic      = utils.Diagnostic
	PropertyBuffer  = structures.PropertyBuffer
	PropertyDecoder = structures.PropertyDecoder
	PropertyValue   = structures.PropertyValue
	ValueKind       = structures.ValueKind
	StringOrRaw     = structures.StringOrRaw
)

const (
	EventStartFbx  = core.EventStartFbx
	EventEndFbx    = core.EventEndFbx
	EventStartNode = core.EventStartNode
	EventEndNode   = core.EventEndNode
)

// Cursor drives a non-recursive pull over an FBX binary document's
// node-record tree, yielding one Event per call to Next. Once Next
// returns a non-nil error, every later call returns an equal error;
// once it returns an EndFbx event, every later call returns EndFbx
// again.
type Cursor struct {
	inner *core.Cursor
}

// Next pulls the next Event from the underlying source.
func (c *Cursor) Next() (Event, error) {
	return c.inner.Next()
}

// Pos returns the number of bytes consumed from the source so far.
func (c *Cursor) Pos() uint64 {
	return c.inner.Pos()
}

// OnDiagnostic registers fn to be called for every non-fatal framing
// observation, such as a mismatched magic-tail byte sequence.
func (c *Cursor) OnDiagnostic(fn func(Diagnostic)) {
	c.inner.OnDiagnostic(fn)
}

// Diagnostics returns every non-fatal framing-level observation made
// so far.
func (c *Cursor) Diagnostics() []Diagnostic {
	return c.inner.Diagnostics()
}
