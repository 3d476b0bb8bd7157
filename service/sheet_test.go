package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadSheetRowsPercentCells(t *testing.T) {
	f := buildWorkbook(t, fixtureSheet{
		name: "UPS Air $1.0M",
		rows: [][]any{
			contractHeader,
			{"Ground", "0-5lb", 0.125},
			{"Ground", "5-10lb", 0.105},
			{"Express", "0-5lb", "20%"},
		},
		percent: "C2:C4",
	})
	defer f.Close()

	rows, err := ReadSheetRows(f, "UPS Air $1.0M")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Ground", "0-5lb", "12.5"}, rows[1])
	assert.Equal(t, []string{"Ground", "5-10lb", "10.5"}, rows[2])
	assert.Equal(t, "20%", rows[3][2], "text cells keep their value")
}

func TestReadSheetRowsKeepsStoredPrecision(t *testing.T) {
	f := buildWorkbook(t, fixtureSheet{
		name: "UPS Air $1.0M",
		rows: [][]any{contractHeader, {"Ground", "0-5lb", 12.345}},
	})
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("UPS Air $1.0M", "C2", "C2", style))

	rows, err := ReadSheetRows(f, "UPS Air $1.0M")
	require.NoError(t, err)
	assert.Equal(t, "12.345", rows[1][2])
}

func TestReadSheetRowsCustomPercentFormat(t *testing.T) {
	f := buildWorkbook(t, fixtureSheet{
		name: "UPS Air $1.0M",
		rows: [][]any{contractHeader, {"Ground", "0-5lb", 0.2}},
	})
	defer f.Close()

	format := "0.0%"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("UPS Air $1.0M", "C2", "C2", style))

	rows, err := ReadSheetRows(f, "UPS Air $1.0M")
	require.NoError(t, err)
	assert.Equal(t, "20", rows[1][2])
}

func TestQueryPercentFormattedRates(t *testing.T) {
	path := saveWorkbook(t, fixtureSheet{
		name: "UPS Air $1.0M",
		rows: [][]any{
			contractHeader,
			{"Ground", "0-5lb", 0.125},
			{"Ground", "5-10lb", 0.105},
		},
		percent: "C2:C3",
	})

	got, err := newTestService(path).Query(context.Background(), upsQuery())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 11.5, got[0].AverageDiscount, 1e-9)
	assert.InDelta(t, 10.5, got[0].MinDiscount, 1e-9)
	assert.InDelta(t, 12.5, got[0].MaxDiscount, 1e-9)
	assert.Equal(t, 2, got[0].ContractsCount)
}
