package core

import "github.com/lo48576/fbx-binary-reader/internal/structures"

// EventKind identifies which of the four document-level events an Event
// carries.
type EventKind int

const (
	// EventStartFbx marks the start of the document; Event.Header is set.
	EventStartFbx EventKind = iota
	// EventEndFbx marks the end of the document.
	EventEndFbx
	// EventStartNode marks the start of a node; Event.Name and
	// Event.Properties are set.
	EventStartNode
	// EventEndNode marks the end of a node.
	EventEndNode
)

// String returns a short, stable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStartFbx:
		return "StartFbx"
	case EventEndFbx:
		return "EndFbx"
	case EventStartNode:
		return "StartNode"
	case EventEndNode:
		return "EndNode"
	default:
		return "Unknown"
	}
}

// FbxHeaderInfo carries the document's format version, encoded as
// major*1000 + minor*100.
type FbxHeaderInfo struct {
	Version int32
}

// Major returns the document's major version number.
func (h FbxHeaderInfo) Major() int32 {
	return h.Version / 1000
}

// Minor returns the document's minor version number.
func (h FbxHeaderInfo) Minor() int32 {
	return (h.Version / 100) % 10
}

// Event is one token produced by the cursor: document start/end or node
// start/end. Only the fields relevant to Kind are populated.
type Event struct {
	Kind       EventKind
	Header     FbxHeaderInfo
	Name       string
	Properties *structures.PropertyBuffer
}
