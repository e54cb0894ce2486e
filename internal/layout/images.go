package layout

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Image is one embedded image with its page placement.
type Image struct {
	Name       string // page{N}_img{M}.{format}
	PageNumber int
	Ordinal    int // detection order within the page, 1-based
	Format     string
	Bytes      []byte
	BBox       Rect
	HasBBox    bool
}

// ExtractImages extracts every embedded image with raw bytes via pdfcpu and
// recovers page placement rectangles from the content streams. Images are
// returned in (page, detection order).
func ExtractImages(path string) ([]Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open PDF for image extraction: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var images []Image
	perPage := map[int]int{}
	digest := func(img model.Image, _ bool, _ int) error {
		data, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("failed to read image on page %d: %w", img.PageNr, err)
		}
		perPage[img.PageNr]++
		ordinal := perPage[img.PageNr]
		format := img.FileType
		if format == "" {
			format = "png"
		}
		images = append(images, Image{
			Name:       fmt.Sprintf("page%d_img%d.%s", img.PageNr, ordinal, format),
			PageNumber: img.PageNr,
			Ordinal:    ordinal,
			Format:     format,
			Bytes:      data,
		})
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, conf); err != nil {
		return nil, fmt.Errorf("image extraction failed for %s: %w", path, err)
	}

	sort.SliceStable(images, func(i, j int) bool {
		if images[i].PageNumber != images[j].PageNumber {
			return images[i].PageNumber < images[j].PageNumber
		}
		return images[i].Ordinal < images[j].Ordinal
	})

	attachBBoxes(path, images)
	return images, nil
}

// attachBBoxes pairs images with content-stream placements, positionally
// per page. Placement recovery is best-effort: an image without a matching
// placement simply has no bounding box.
func attachBBoxes(path string, images []Image) {
	doc, err := Open(path)
	if err != nil {
		return
	}
	defer doc.Close()

	byPage := map[int][]*Image{}
	for i := range images {
		img := &images[i]
		byPage[img.PageNumber] = append(byPage[img.PageNumber], img)
	}

	for pageNum, pageImages := range byPage {
		rects := doc.imagePlacements(pageNum)
		for i, img := range pageImages {
			if i >= len(rects) {
				break
			}
			img.BBox = rects[i]
			img.HasBBox = true
		}
	}
}

// imagePlacementPattern matches the transform preceding an XObject paint:
// "a b c d e f cm ... /Name Do".
var imagePlacementPattern = regexp.MustCompile(
	`([\d.+-]+)\s+([\d.+-]+)\s+([\d.+-]+)\s+([\d.+-]+)\s+([\d.+-]+)\s+([\d.+-]+)\s+cm\s+(?:/[\w.]+\s+gs\s+)?/([\w.]+)\s+Do`)

// imagePlacements scans a page's content streams for image XObject paints
// and returns their rectangles in stream order.
func (d *Document) imagePlacements(pageNum int) []Rect {
	defer func() {
		_ = recover()
	}()

	page := d.r.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	imageNames := imageXObjectNames(page)
	if len(imageNames) == 0 {
		return nil
	}

	content := pageContentStream(page)
	if content == "" {
		return nil
	}
	pageH := d.pageHeight(pageNum)

	var rects []Rect
	for _, m := range imagePlacementPattern.FindAllStringSubmatch(content, -1) {
		if !imageNames[m[7]] {
			continue
		}
		a, _ := strconv.ParseFloat(m[1], 64)
		dScale, _ := strconv.ParseFloat(m[4], 64)
		e, _ := strconv.ParseFloat(m[5], 64)
		f, _ := strconv.ParseFloat(m[6], 64)

		rects = append(rects, Rect{
			X0: e,
			Y0: pageH - f - dScale,
			X1: e + a,
			Y1: pageH - f,
		})
	}
	return rects
}

// imageXObjectNames walks the page resources for XObjects of subtype
// Image.
func imageXObjectNames(page pdf.Page) map[string]bool {
	names := map[string]bool{}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return names
	}
	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return names
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		subtype := obj.Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		names[key] = true
	}
	return names
}

// pageContentStream concatenates the decoded content stream(s) of a page.
func pageContentStream(page pdf.Page) string {
	contents := page.V.Key("Contents")
	if contents.IsNull() {
		return ""
	}

	var builder strings.Builder
	readStream := func(v pdf.Value) {
		defer func() {
			_ = recover()
		}()
		r := v.Reader()
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return
		}
		builder.Write(data)
		builder.WriteByte('\n')
	}

	switch contents.Kind() {
	case pdf.Stream:
		readStream(contents)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			readStream(contents.Index(i))
		}
	}
	return builder.String()
}

// TextNear returns all block text on a page intersecting the bounding box
// expanded by margin on all sides.
func (d *Document) TextNear(pageNum int, bbox Rect, margin float64) string {
	expanded := bbox.Expand(margin)

	var parts []string
	for _, blk := range d.PageBlocks(pageNum) {
		blockRect := Rect{X0: blk.X0, Y0: blk.Y0, X1: blk.X1, Y1: blk.Y1}
		if expanded.Intersects(blockRect) {
			parts = append(parts, blk.Text)
		}
	}
	return strings.Join(parts, "\n")
}
