package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// seriesCodeRe matches the test-series footer code printed on every
	// page of the exam booklets.
	seriesCodeRe = regexp.MustCompile(`\s*ДРТ–\d+\s*г\.\s*`)

	// trailingDigitsRe matches a bare page number left at the end of a
	// question after the footer code is removed.
	trailingDigitsRe = regexp.MustCompile(`\s*\d+\s*$`)
)

// optionMarkers are the characters that can start an answer-option line,
// for example "1)" or "Б)".
const optionMarkers = "1234567АБВГД"

// CleanText normalizes extracted question text. Unicode is NFC-composed
// and the stray "ѐ" glyph fixed, then whitespace is cleaned run by run:
//
//   - a run of spaces and tabs collapses to its last character,
//   - a run of trailing spaces plus one newline becomes a line break,
//     which is kept before an answer-option marker and otherwise folded
//     into a space,
//   - any other run containing newlines vanishes,
//   - leading and trailing whitespace is trimmed.
//
// CleanText is idempotent.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "ѐ", "ё")

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); {
		if !unicode.IsSpace(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		j := i
		newlines := 0
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			if runes[j] == '\n' {
				newlines++
			}
			j++
		}

		switch {
		case b.Len() == 0 || j == len(runes):
			// leading or trailing run
		case newlines == 0:
			b.WriteRune(runes[j-1])
		case newlines == 1 && runes[j-1] == '\n':
			if startsOption(runes[j:]) {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		i = j
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// startsOption reports whether the text begins with a numbered or
// lettered answer-option marker such as "1)" or "Б)".
func startsOption(runes []rune) bool {
	return len(runes) >= 2 && runes[1] == ')' && strings.ContainsRune(optionMarkers, runes[0])
}

// StripFootnotes removes the per-page footer code and any page number
// left dangling at the end of the text.
func StripFootnotes(text string) string {
	text = seriesCodeRe.ReplaceAllString(text, "")
	return trailingDigitsRe.ReplaceAllString(text, "")
}
