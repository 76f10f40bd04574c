package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudriin/antrian-rest-api/internal/models"
)

func TestBuildWorkbookPivot(t *testing.T) {
	counts := models.LocketDailyCounts{
		"B locket": {"2025-05-02": 3},
		"A locket": {"2025-05-01": 5, "2025-05-02": 1},
	}

	f := BuildWorkbook(counts)

	cell := func(ref string) string {
		v, err := f.GetCellValue(reportSheet, ref)
		require.NoError(t, err)
		return v
	}

	// Header: date column then lockets in name order.
	assert.Equal(t, "Date", cell("A1"))
	assert.Equal(t, "A locket", cell("B1"))
	assert.Equal(t, "B locket", cell("C1"))

	// Rows in date order, zero-filled where a locket served nothing.
	assert.Equal(t, "2025-05-01", cell("A2"))
	assert.Equal(t, "5", cell("B2"))
	assert.Equal(t, "0", cell("C2"))

	assert.Equal(t, "2025-05-02", cell("A3"))
	assert.Equal(t, "1", cell("B3"))
	assert.Equal(t, "3", cell("C3"))
}

func TestBuildWorkbookEmpty(t *testing.T) {
	f := BuildWorkbook(models.LocketDailyCounts{})
	v, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", v)
}
