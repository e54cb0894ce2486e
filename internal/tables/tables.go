// Package tables is the boundary to the table-detection service: given a
// PDF it returns the rectangular grids detected with a lattice-line
// strategy. The detection algorithm itself lives behind the service; this
// package only transports its results.
package tables

import "context"

// Grid is one detected table: rows of raw cell text, in detection order.
// Index is the detection ordinal within the document.
type Grid struct {
	Index int        `json:"index"`
	Rows  [][]string `json:"rows"`
}

// Detector returns the grids detected in a PDF document.
type Detector interface {
	Detect(ctx context.Context, pdfPath string) ([]Grid, error)
}

// Noop is a Detector for runs without a configured detection service; it
// reports no tables.
type Noop struct{}

// Detect implements Detector.
func (Noop) Detect(_ context.Context, _ string) ([]Grid, error) {
	return nil, nil
}
