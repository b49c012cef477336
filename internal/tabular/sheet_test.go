package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheets map[string][][]any, order ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, axis, v))
			}
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadSheet_PreferredSheet(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"集計": {{"x"}, {"1"}},
		"マスタ": {
			{" 日付 ", "内容", "金額（円）"},
			{46027, "コーヒー", -450},
			{"2026/1/5", "給与", 300000},
		},
	}, "集計", "マスタ")

	tbl, err := ReadSheet(buf, "マスタ")
	require.NoError(t, err)

	assert.Equal(t, []string{"日付", "内容", "金額（円）"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 2, tbl.Rows[0].Number)
	assert.Equal(t, float64(46027), tbl.Rows[0].Get("日付"))
	assert.Equal(t, "コーヒー", tbl.Rows[0].Get("内容"))
	assert.Equal(t, float64(-450), tbl.Rows[0].Get("金額（円）"))
	assert.Equal(t, "2026/1/5", tbl.Rows[1].Get("日付"))
}

func TestReadSheet_FallsBackToFirstSheet(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"Data": {{"日付", "合計（円）"}, {"2026-01-04", 100}},
	}, "Data")

	tbl, err := ReadSheet(buf, "資産推移")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, float64(100), tbl.Rows[0].Get("合計（円）"))
}

func TestReadSheet_BlankRowsAndMissingCells(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"S": {
			{"a", "b", "c"},
			{"1", nil, nil},
			{nil, nil, nil},
			{"2", "x", nil},
		},
	}, "S")

	tbl, err := ReadSheet(buf, "")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "", tbl.Rows[0].Get("b"))
	assert.Equal(t, "", tbl.Rows[0].Get("c"))
	assert.Equal(t, 4, tbl.Rows[1].Number, "row numbers follow the sheet")
	assert.Equal(t, "x", tbl.Rows[1].Get("b"))
}

func TestReadSheet_NotAWorkbook(t *testing.T) {
	_, err := ReadSheet(bytes.NewBufferString("a,b\n1,2\n"), "")
	assert.Error(t, err)
}
