// Package chardev carries the minimal character-device surface the rest
// of the module needs: enough identity for chardev-typed properties to be
// assigned and inspected. The character-device subsystem proper is an
// external collaborator.
package chardev

import "io"

// A Chardev is a named character backend. The bridge only ever stores and
// hands back pointers to it.
type Chardev struct {
	Label string

	// Sink receives bytes written by a device. May be nil.
	Sink io.Writer
}

// New creates a character backend with the given label.
func New(label string, sink io.Writer) *Chardev {
	return &Chardev{Label: label, Sink: sink}
}

// Write forwards to the sink, dropping the bytes when there is none.
func (c *Chardev) Write(p []byte) (int, error) {
	if c.Sink == nil {
		return len(p), nil
	}

	return c.Sink.Write(p)
}
