// Package fbx provides a pure Go pull parser for the FBX binary file
// format. It reads a node-record tree as a flat sequence of events —
// StartFbx, StartNode, EndNode, EndFbx — without building an in-memory
// document, and defers property decoding until the caller asks for it.
package fbx

import (
	"io"

	"github.com/lo48576/fbx-binary-reader/internal/core"
)

// NewCursor constructs a Cursor over source, starting in the
// magic-reading state. The returned Cursor owns source exclusively.
func NewCursor(source io.Reader) *Cursor {
	return &Cursor{inner: core.NewCursor(source)}
}

// NewCursorWithConfig is like NewCursor but applies cfg.
func NewCursorWithConfig(source io.Reader, cfg Config) *Cursor {
	return &Cursor{inner: core.NewCursorWithOptions(source, core.Options{
		MaxPropertyByteLen:      cfg.MaxPropertyByteLen,
		IgnoreMagicTailMismatch: cfg.IgnoreMagicTailMismatch,
	})}
}
