package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// baselineTolerance groups glyph runs with nearly equal baselines into
	// one physical line.
	baselineTolerance = 2.0

	// minColumnGap is the horizontal gap, in multiples of the font size,
	// that splits a physical line into separate column fragments.
	minColumnGap = 3.0

	// wordGap is the horizontal gap beyond which a space is inserted
	// between adjacent glyph runs of one fragment.
	wordGap = 1.0
)

// fragment is one contiguous run of text on a single baseline within a
// single column.
type fragment struct {
	x0, x1 float64
	y0, y1 float64 // top-origin
	text   string
}

// buildBlocks clusters positioned glyph runs into reading-order text
// blocks: runs are grouped into baselines, baselines split into column
// fragments at large horizontal gaps, and vertically adjacent fragments of
// the same column merged into blocks.
func buildBlocks(texts []pdf.Text, pageHeight float64) []Block {
	if len(texts) == 0 {
		return nil
	}

	frags := buildFragments(texts, pageHeight)

	sort.Slice(frags, func(i, j int) bool {
		if frags[i].y0 != frags[j].y0 {
			return frags[i].y0 < frags[j].y0
		}
		return frags[i].x0 < frags[j].x0
	})

	var blocks []Block
	for _, frag := range frags {
		if i := joinableBlock(blocks, frag); i >= 0 {
			blk := &blocks[i]
			blk.Text += "\n" + frag.text
			blk.X0 = math.Min(blk.X0, frag.x0)
			blk.X1 = math.Max(blk.X1, frag.x1)
			blk.Y1 = math.Max(blk.Y1, frag.y1)
			continue
		}
		blocks = append(blocks, Block{X0: frag.x0, Y0: frag.y0, X1: frag.x1, Y1: frag.y1, Text: frag.text})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		yi, yj := math.Round(blocks[i].Y0), math.Round(blocks[j].Y0)
		if yi != yj {
			return yi < yj
		}
		return blocks[i].X0 < blocks[j].X0
	})
	return blocks
}

// joinableBlock finds an open block the fragment continues: horizontal
// overlap with a small vertical gap below the block's last line.
func joinableBlock(blocks []Block, frag fragment) int {
	lineHeight := frag.y1 - frag.y0
	maxGap := math.Max(4, lineHeight*0.9)

	for i := len(blocks) - 1; i >= 0; i-- {
		blk := blocks[i]
		if frag.y0 < blk.Y1-baselineTolerance {
			continue // fragment is beside, not below
		}
		if frag.y0-blk.Y1 > maxGap {
			continue
		}
		if frag.x0 < blk.X1 && blk.X0 < frag.x1 {
			return i
		}
	}
	return -1
}

// buildFragments groups glyph runs into per-baseline, per-column fragments.
func buildFragments(texts []pdf.Text, pageHeight float64) []fragment {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > baselineTolerance {
			return sorted[i].Y > sorted[j].Y // larger Y is higher on the page
		}
		return sorted[i].X < sorted[j].X
	})

	var frags []fragment
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && math.Abs(sorted[end].Y-sorted[start].Y) <= baselineTolerance {
			end++
		}
		frags = append(frags, splitLine(sorted[start:end], pageHeight)...)
		start = end
	}
	return frags
}

// splitLine converts the glyph runs of one baseline into column fragments.
func splitLine(line []pdf.Text, pageHeight float64) []fragment {
	var frags []fragment
	var b strings.Builder

	openFragment := func(t pdf.Text) fragment {
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		return fragment{
			x0: t.X,
			x1: t.X + t.W,
			y0: pageHeight - t.Y - size,
			y1: pageHeight - t.Y,
		}
	}

	cur := openFragment(line[0])
	b.WriteString(line[0].S)
	prevEnd := line[0].X + line[0].W
	prevSize := line[0].FontSize

	for _, t := range line[1:] {
		gap := t.X - prevEnd
		colGap := minColumnGap * math.Max(prevSize, 1)
		switch {
		case gap > colGap:
			cur.text = b.String()
			frags = append(frags, cur)
			b.Reset()
			cur = openFragment(t)
			b.WriteString(t.S)
		case gap > wordGap && !strings.HasSuffix(b.String(), " "):
			b.WriteByte(' ')
			b.WriteString(t.S)
		default:
			b.WriteString(t.S)
		}
		if t.X+t.W > cur.x1 {
			cur.x1 = t.X + t.W
		}
		if top := pageHeight - t.Y - t.FontSize; top < cur.y0 && t.FontSize > 0 {
			cur.y0 = top
		}
		prevEnd = t.X + t.W
		prevSize = t.FontSize
	}
	cur.text = b.String()
	frags = append(frags, cur)
	return frags
}
