package extract

import (
	"regexp"
	"strings"
)

var (
	// sectionHeaderRe matches the section headings, in either exam
	// language: "Часть А" or "Частка В".
	sectionHeaderRe = regexp.MustCompile(`^(Часть|Частка) ([АВ])$`)

	// questionIDRe matches the ID opening a question line, e.g. "А12".
	questionIDRe = regexp.MustCompile(`^([АВ]\d+)`)
)

// Segment splits the raw text of an exam booklet into its two sections.
// Lines before the first question of a section accumulate as that
// section's general instructions; each question runs from its ID line to
// the next question, section heading, or end of text. Completed questions
// pass through footnote stripping, text cleaning, and option reordering.
// Both sections are always returned, in А, В order, even when empty.
func Segment(text string) []Section {
	sections := map[string]*Section{
		"А": {Letter: "А"},
		"В": {Letter: "В"},
	}

	var cur *Section
	var curQ *Question
	inGeneral := false

	finalize := func() {
		if curQ != nil {
			curQ.Text = ReorderOptions(CleanText(StripFootnotes(curQ.Text)))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := sectionHeaderRe.FindStringSubmatch(line); m != nil {
			finalize()
			curQ = nil
			cur = sections[m[2]]
			inGeneral = true
			continue
		}
		if cur == nil {
			continue
		}

		if m := questionIDRe.FindStringSubmatch(line); m != nil {
			finalize()
			if existing, ok := cur.Question(m[1]); ok {
				// A repeated ID restarts the question.
				existing.Text = line + "\n"
				curQ = existing
			} else {
				cur.Append(Question{ID: m[1], Text: line + "\n"})
				curQ = &cur.Questions[len(cur.Questions)-1]
			}
			if inGeneral {
				inGeneral = false
				cur.GeneralInfo = CleanText(cur.GeneralInfo)
			}
			continue
		}

		if inGeneral {
			cur.GeneralInfo += line + "\n"
		} else if curQ != nil {
			curQ.Text += line + "\n"
		}
	}
	finalize()

	return []Section{*sections["А"], *sections["В"]}
}
