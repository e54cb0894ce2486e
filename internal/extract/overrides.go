package extract

import (
	"strings"

	"github.com/ctexam/corpusgen/internal/tables"
)

// Key identifies one exam edition.
type Key struct {
	Subject string
	Year    string
}

type cellPatch struct {
	Grid int // detection index
	Old  string
	New  string
}

// TableOverride holds per-edition fixups for table detection artifacts.
type TableOverride struct {
	// Drop lists detection indices of grids to discard entirely.
	Drop []int
	// Patches repair glyph-spacing damage inside specific grids.
	Patches []cellPatch
}

// tableOverrides carries hand-curated fixes for editions whose scans
// defeat automatic detection. The 2023 geography booklet needs its first
// grid dropped (the question is answerable only from the illustration)
// and a few cells repaired where intra-word spaces crept in.
var tableOverrides = map[Key]TableOverride{
	{Subject: "geo", Year: "2023"}: {
		Drop: []int{0},
		Patches: []cellPatch{
			{Grid: 3, Old: "П ольшча", New: "Польшча"},
			{Grid: 4, Old: "С амой", New: "Самой"},
			{Grid: 4, Old: "С амай", New: "Самай"},
		},
	},
}

// imageOverrides maps editions to the hand-curated question ID of every
// extracted image, in image detection order.
var imageOverrides = map[Key][]string{
	{Subject: "geo", Year: "2023"}: strings.Fields(
		"А4 А1 А7 А7 А7 А7 А7 А5 А6 А7 А13 А14 А10 А11 А12 А15 В3 В4 В4 В1 В6 В8 В7 В5 В12 В20"),
}

// ApplyTableOverrides patches and filters detected grids for the given
// edition. Patches address grids by their detection index, so they are
// applied before any grid is dropped. The returned slice preserves
// detection order and indices.
func ApplyTableOverrides(subject, year string, grids []tables.Grid) []tables.Grid {
	ov, ok := tableOverrides[Key{Subject: subject, Year: year}]
	if !ok {
		return grids
	}

	for _, p := range ov.Patches {
		for gi := range grids {
			if grids[gi].Index != p.Grid {
				continue
			}
			for ri := range grids[gi].Rows {
				for ci := range grids[gi].Rows[ri] {
					grids[gi].Rows[ri][ci] = strings.ReplaceAll(grids[gi].Rows[ri][ci], p.Old, p.New)
				}
			}
		}
	}

	dropped := make(map[int]bool, len(ov.Drop))
	for _, i := range ov.Drop {
		dropped[i] = true
	}

	kept := grids[:0]
	for _, g := range grids {
		if !dropped[g.Index] {
			kept = append(kept, g)
		}
	}
	return kept
}

// ImageQuestionOverride returns the curated image-to-question ID list for
// an edition, or nil when the edition has none.
func ImageQuestionOverride(subject, year string) []string {
	return imageOverrides[Key{Subject: subject, Year: year}]
}
