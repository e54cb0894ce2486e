package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentTwoSections(t *testing.T) {
	text := "Обложка теста\n" +
		"Часть А\n" +
		"Инструкция для части А.\n" +
		"А1. Первый вопрос?\n" +
		"1) один\n" +
		"2) два\n" +
		"А2. Второй вопрос?\n" +
		"1) да\n" +
		"2) нет\n" +
		"Часть В\n" +
		"Инструкция для части В.\n" +
		"В1. Запишите ответ.\n" +
		"В2. Запишите ещё ответ.\n"

	sections := Segment(text)
	require.Len(t, sections, 2)
	assert.Equal(t, "А", sections[0].Letter)
	assert.Equal(t, "В", sections[1].Letter)

	assert.Equal(t, "Инструкция для части А.", sections[0].GeneralInfo)
	assert.Equal(t, "Инструкция для части В.", sections[1].GeneralInfo)

	require.Len(t, sections[0].Questions, 2)
	require.Len(t, sections[1].Questions, 2)
	assert.Equal(t, "А1", sections[0].Questions[0].ID)
	assert.Equal(t, "А2", sections[0].Questions[1].ID)
	assert.Equal(t, "В1", sections[1].Questions[0].ID)
	assert.Equal(t, "В2", sections[1].Questions[1].ID)

	// Lines belong only to the question they appeared under.
	assert.Equal(t, "А1. Первый вопрос?\n1) один\n2) два", sections[0].Questions[0].Text)
	assert.Equal(t, "А2. Второй вопрос?\n1) да\n2) нет", sections[0].Questions[1].Text)
	assert.Equal(t, "В1. Запишите ответ.", sections[1].Questions[0].Text)
}

func TestSegmentBelarusianHeadings(t *testing.T) {
	text := "Частка А\n" +
		"Інструкцыя.\n" +
		"А1. Пытанне?\n" +
		"1) так\n" +
		"2) не\n"

	sections := Segment(text)
	require.Len(t, sections, 2)
	assert.Equal(t, "Інструкцыя.", sections[0].GeneralInfo)
	require.Len(t, sections[0].Questions, 1)
	assert.Empty(t, sections[1].Questions)
}

func TestSegmentFinalizesLastQuestion(t *testing.T) {
	text := "Часть А\n" +
		"Инструкция.\n" +
		"А1. Вопрос?\n" +
		"2) два\n" +
		"1) один ДРТ–2023 г. 4\n"

	sections := Segment(text)
	require.Len(t, sections[0].Questions, 1)
	// Footnote stripping, cleaning and option reordering all ran.
	assert.Equal(t, "А1. Вопрос?\n1) один\n2) два", sections[0].Questions[0].Text)
}

func TestSegmentIgnoresTextBeforeFirstSection(t *testing.T) {
	text := "А1. Вопрос до раздела\nЧасть А\nИнструкция.\n"

	sections := Segment(text)
	assert.Empty(t, sections[0].Questions)
	assert.Equal(t, "Инструкция.\n", sections[0].GeneralInfo)
}

func TestSectionQuestionLookup(t *testing.T) {
	var s Section
	s.Append(Question{ID: "А1", Text: "x"})
	s.Append(Question{ID: "А2", Text: "y"})

	q, ok := s.Question("А2")
	require.True(t, ok)
	assert.Equal(t, "y", q.Text)

	_, ok = s.Question("В9")
	assert.False(t, ok)
}
