package extract

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ctexam/corpusgen/internal/layout"
)

// The consultation booklets lay answers out in two columns at fixed
// horizontal positions: the question number and correct answer on the
// left, the explanatory comment on the right.
const (
	answerColX0  = 140.0
	answerColX1  = 142.0
	commentColX0 = 402.0
	commentColX1 = 440.0
)

var (
	// answerIDRe matches the question number opening an answer block,
	// e.g. "А12.".
	answerIDRe = regexp.MustCompile(`^([АВ]\d+)\.`)

	// answerValueRe captures the correct answer after its label.
	answerValueRe = regexp.MustCompile(`Ответ:\s*(.+)`)
)

// AssociateAnswers reads the positioned text blocks of a consultation PDF
// and pairs each question ID with its answer and comment. Blocks are
// classified by their left edge: the answer column carries the ID and the
// "Ответ:" line, the comment column carries prose that accrues to the
// most recently seen question, across page boundaries. Comment text
// before the first question ID is dropped.
func AssociateAnswers(pages [][]layout.Block) map[string]*AnswerRecord {
	records := map[string]*AnswerRecord{}
	var current *AnswerRecord

	for _, blocks := range pages {
		ordered := make([]layout.Block, len(blocks))
		copy(ordered, blocks)
		sort.SliceStable(ordered, func(i, j int) bool {
			yi, yj := math.Round(ordered[i].Y0), math.Round(ordered[j].Y0)
			if yi != yj {
				return yi < yj
			}
			return ordered[i].X0 < ordered[j].X0
		})

		for _, blk := range ordered {
			switch {
			case answerColX0 < blk.X0 && blk.X0 < answerColX1:
				if m := answerIDRe.FindStringSubmatch(blk.Text); m != nil {
					if _, ok := records[m[1]]; !ok {
						records[m[1]] = &AnswerRecord{}
					}
					current = records[m[1]]
				}
				if m := answerValueRe.FindStringSubmatch(blk.Text); m != nil && current != nil {
					current.Answer = strings.ToUpper(strings.TrimSpace(m[1]))
				}
			case commentColX0 < blk.X0 && blk.X0 < commentColX1:
				if current != nil {
					current.Comment += " " + strings.TrimSpace(blk.Text)
				}
			}
		}
	}

	for _, rec := range records {
		rec.Answer = CleanText(strings.TrimSpace(rec.Answer))
		rec.Comment = CleanText(strings.TrimSpace(rec.Comment))
	}
	return records
}
