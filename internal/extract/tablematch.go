package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ctexam/corpusgen/internal/tables"
)

// Matcher splices detected table grids back into the question text they
// were lifted from, as markdown.
type Matcher struct {
	logger *slog.Logger
}

// NewMatcher creates a Matcher. A nil logger disables diagnostics.
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Matcher{logger: logger}
}

// SpliceAll matches every grid against the questions and replaces the
// flattened table text with a markdown rendering, in place. A grid is
// anchored by its first cell and the last line of its last cell; the
// first question containing that span wins. Grids that match no question
// or more than one are reported through the logger, the latter spliced
// into the first match only.
func (m *Matcher) SpliceAll(sections []Section, grids []tables.Grid) {
	for _, grid := range grids {
		m.splice(sections, grid)
	}
}

func (m *Matcher) splice(sections []Section, grid tables.Grid) {
	if len(grid.Rows) == 0 || len(grid.Rows[0]) == 0 {
		return
	}

	anchor, err := gridAnchor(grid)
	if err != nil {
		m.logger.Warn("unusable table anchor", "table", grid.Index, "error", err)
		return
	}

	markdown := renderMarkdown(grid.Rows)
	spliced := false
	for si := range sections {
		for qi := range sections[si].Questions {
			q := &sections[si].Questions[qi]
			if strings.Contains(q.Text, markdown) {
				// Already spliced; the anchor would otherwise match
				// inside the rendered table.
				spliced = true
				continue
			}
			span := anchor.FindString(q.Text)
			if span == "" {
				continue
			}
			if spliced {
				m.logger.Warn("table anchor matches multiple questions",
					"table", grid.Index, "question", q.ID)
				continue
			}
			q.Text = strings.Replace(q.Text, span, markdown, 1)
			spliced = true
		}
	}
	if !spliced {
		m.logger.Warn("no matching question for table", "table", grid.Index)
	}
}

// gridAnchor builds the pattern locating a grid's flattened text inside a
// question: the first cell, anything, then the last line of the last cell.
func gridAnchor(grid tables.Grid) (*regexp.Regexp, error) {
	first := grid.Rows[0][0]
	lastRow := grid.Rows[len(grid.Rows)-1]
	lastCell := lastRow[len(lastRow)-1]
	lastLines := strings.Split(lastCell, "\n")
	last := lastLines[len(lastLines)-1]

	return regexp.Compile(`(?s)` + regexp.QuoteMeta(first) + `.*?` + regexp.QuoteMeta(last))
}

// renderMarkdown converts a grid's rows to a markdown table. The first
// row is the header; newlines inside body cells become "<br>".
func renderMarkdown(rows [][]string) string {
	var b strings.Builder

	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}

	writeRow(rows[0])

	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)

	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(strings.TrimSpace(cell), "\n", "<br>")
		}
		writeRow(cells)
	}
	return b.String()
}

// CleanGrids runs CleanText over every cell of every grid, mirroring the
// cleanup applied to question text so that anchors line up.
func CleanGrids(grids []tables.Grid) {
	for gi := range grids {
		for ri := range grids[gi].Rows {
			for ci := range grids[gi].Rows[ri] {
				grids[gi].Rows[ri][ci] = CleanText(grids[gi].Rows[ri][ci])
			}
		}
	}
}
