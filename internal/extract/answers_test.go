package extract

import (
	"testing"

	"github.com/ctexam/corpusgen/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerBlock(y float64, text string) layout.Block {
	return layout.Block{X0: 141, Y0: y, X1: 400, Y1: y + 12, Text: text}
}

func commentBlock(y float64, text string) layout.Block {
	return layout.Block{X0: 410, Y0: y, X1: 560, Y1: y + 12, Text: text}
}

func TestAssociateAnswers(t *testing.T) {
	pages := [][]layout.Block{
		{
			answerBlock(100, "А1. 3\nОтвет: 3"),
			commentBlock(100, "Пояснение один"),
			commentBlock(150, "продолжение"),
			answerBlock(200, "А2.\nОтвет: вагон"),
		},
		{
			commentBlock(50, "комментарий через страницу"),
			answerBlock(100, "В1.\nОтвет: 25"),
		},
	}

	records := AssociateAnswers(pages)
	require.Len(t, records, 3)

	require.Contains(t, records, "А1")
	assert.Equal(t, "3", records["А1"].Answer)
	assert.Equal(t, "Пояснение один продолжение", records["А1"].Comment)

	// Answers are uppercased; comments follow their question across pages.
	require.Contains(t, records, "А2")
	assert.Equal(t, "ВАГОН", records["А2"].Answer)
	assert.Equal(t, "комментарий через страницу", records["А2"].Comment)

	require.Contains(t, records, "В1")
	assert.Equal(t, "25", records["В1"].Answer)
	assert.Empty(t, records["В1"].Comment)
}

func TestAssociateAnswersColumnBands(t *testing.T) {
	pages := [][]layout.Block{
		{
			// Comment-column text before any question is dropped.
			commentBlock(10, "бесхозный комментарий"),
			answerBlock(100, "А1.\nОтвет: 2"),
			// A marker in the comment band never becomes an answer.
			commentBlock(120, "Ответ: 9"),
			// An answer-band block without markers changes nothing.
			answerBlock(140, "страница 3"),
			// Blocks outside both bands are ignored entirely.
			{X0: 50, Y0: 160, X1: 100, Y1: 172, Text: "Ответ: 7"},
		},
	}

	records := AssociateAnswers(pages)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records["А1"].Answer)
	assert.Equal(t, "Ответ: 9", records["А1"].Comment)
}

func TestAssociateAnswersReadingOrder(t *testing.T) {
	// Blocks arrive unsorted; position, not input order, decides which
	// question a comment belongs to.
	pages := [][]layout.Block{
		{
			commentBlock(210, "про второй"),
			answerBlock(200, "А2.\nОтвет: 1"),
			commentBlock(110, "про первый"),
			answerBlock(100, "А1.\nОтвет: 4"),
		},
	}

	records := AssociateAnswers(pages)
	require.Len(t, records, 2)
	assert.Equal(t, "про первый", records["А1"].Comment)
	assert.Equal(t, "про второй", records["А2"].Comment)
}
