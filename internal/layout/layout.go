// Package layout is the boundary to the PDF rendering engine. It exposes
// page text in reading order, positioned text blocks, and embedded images
// with their page placement. Coordinates are normalized to a top-left
// origin so that smaller Y means higher on the page.
package layout

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Rect is an axis-aligned rectangle in top-left-origin page coordinates.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Expand grows the rectangle by margin on all sides.
func (r Rect) Expand(margin float64) Rect {
	return Rect{X0: r.X0 - margin, Y0: r.Y0 - margin, X1: r.X1 + margin, Y1: r.Y1 + margin}
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Block is one positioned run of page text.
type Block struct {
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
	Text string
}

// Document wraps an open PDF file. Close releases the underlying file
// handle; a Document is valid only until then.
type Document struct {
	path string
	f    *os.File
	r    *pdf.Reader
}

// Open opens a PDF for layout extraction.
func Open(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &Document{path: path, f: f, r: r}, nil
}

// Close releases the document's file handle.
func (d *Document) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// PageText returns the plain text of one page in natural reading order.
// Pages that fail text extraction yield an empty string rather than an
// error so a single bad page does not sink the document.
func (d *Document) PageText(pageNum int) string {
	page := d.r.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// FullText returns the concatenated text of all pages.
func (d *Document) FullText() string {
	var builder strings.Builder
	for pageNum := 1; pageNum <= d.r.NumPage(); pageNum++ {
		builder.WriteString(d.PageText(pageNum))
	}
	return builder.String()
}

// PageBlocks returns the positioned text blocks of one page in reading
// order (top to bottom, left to right).
func (d *Document) PageBlocks(pageNum int) []Block {
	defer func() {
		// The content parser panics on some malformed streams.
		_ = recover()
	}()

	page := d.r.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}
	return buildBlocks(page.Content().Text, d.pageHeight(pageNum))
}

// pageHeight resolves the page's MediaBox height, walking up the page tree
// for inherited boxes. Falls back to A4 height when absent.
func (d *Document) pageHeight(pageNum int) float64 {
	const a4Height = 842.0

	page := d.r.Page(pageNum)
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() != 4 {
			continue
		}
		if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return a4Height
}
