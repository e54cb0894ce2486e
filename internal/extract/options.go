package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	optionStartRe  = regexp.MustCompile(`\d+\)`)
	optionEndRe    = regexp.MustCompile(`[;.]`)
	optionNumberRe = regexp.MustCompile(`\d+`)
)

// ReorderOptions sorts the numbered answer options of a question into
// ascending order. The scanned booklets typeset options in visual columns,
// so text extraction can yield them out of sequence, including before the
// "1)" option. Text without a "1)" marker is returned unchanged. A
// trailing annotation after the closing ";" or "." of the physically last
// option is detached and re-appended after the sorted options.
func ReorderOptions(text string) string {
	if !strings.Contains(text, "1)") {
		return text
	}

	loc := optionStartRe.FindStringIndex(text)
	stem := strings.TrimSpace(text[:loc[0]])
	options := strings.TrimSpace(text[loc[0]:])

	locs := optionStartRe.FindAllStringIndex(options, -1)
	if len(locs) == 0 {
		return text
	}

	fragments := make([]string, len(locs))
	for i, loc := range locs {
		end := len(options)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		fragments[i] = options[loc[0]:end]
	}

	// Anything after the last option's terminating ";" or "." is an
	// annotation, not part of the option.
	annotation := ""
	last := fragments[len(fragments)-1]
	if m := optionEndRe.FindStringIndex(last); m != nil {
		annotation = strings.TrimSpace(last[m[1]:])
		fragments[len(fragments)-1] = strings.TrimSpace(last[:m[1]])
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return optionNumber(fragments[i]) < optionNumber(fragments[j])
	})

	var b strings.Builder
	b.WriteString(stem)
	for _, fragment := range fragments {
		b.WriteByte('\n')
		b.WriteString(strings.TrimSpace(fragment))
	}
	if annotation != "" {
		b.WriteByte('\n')
		b.WriteString(annotation)
	}
	return b.String()
}

func optionNumber(fragment string) int {
	n, _ := strconv.Atoi(optionNumberRe.FindString(fragment))
	return n
}
