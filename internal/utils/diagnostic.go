package utils

// Diagnostic is a non-fatal observation raised while decoding: a magic-tail
// mismatch, an unknown property type code, an unknown array encoding, or a
// truncated property payload. Diagnostics never change a fatal/non-fatal
// classification on their own; they are collected for callers who want
// visibility into data the parser tolerated rather than rejected.
type Diagnostic struct {
	Message string
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return d.Message
}
