package extract

import (
	"testing"

	"github.com/ctexam/corpusgen/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoGrids() []tables.Grid {
	return []tables.Grid{
		{Index: 0, Rows: [][]string{{"визуальная", "таблица"}}},
		{Index: 1, Rows: [][]string{{"обычная"}}},
		{Index: 2, Rows: [][]string{{"ещё"}}},
		{Index: 3, Rows: [][]string{{"краіна", "П ольшча"}}},
		{Index: 4, Rows: [][]string{{"С амой высокой"}, {"С амай высокай"}}},
	}
}

func TestApplyTableOverridesGeo2023(t *testing.T) {
	got := ApplyTableOverrides("geo", "2023", geoGrids())

	require.Len(t, got, 4)
	for _, g := range got {
		assert.NotEqual(t, 0, g.Index, "grid 0 must be dropped")
	}

	assert.Equal(t, "Польшча", got[2].Rows[0][1])
	assert.Equal(t, "Самой высокой", got[3].Rows[0][0])
	assert.Equal(t, "Самай высокай", got[3].Rows[1][0])
}

func TestApplyTableOverridesOtherEditionsUntouched(t *testing.T) {
	grids := geoGrids()
	got := ApplyTableOverrides("phy", "2023", grids)

	require.Len(t, got, 5)
	assert.Equal(t, "П ольшча", got[3].Rows[0][1])
}

func TestImageQuestionOverride(t *testing.T) {
	ids := ImageQuestionOverride("geo", "2023")
	require.Len(t, ids, 26)
	assert.Equal(t, "А4", ids[0])
	assert.Equal(t, "В20", ids[25])

	assert.Nil(t, ImageQuestionOverride("bio", "2023"))
	assert.Nil(t, ImageQuestionOverride("geo", "2024"))
}
