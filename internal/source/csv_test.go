package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorlens/internal/contracts"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFactorsCSV(t *testing.T) {
	path := writeCSV(t, "factors.csv", `date,asset,score
2024-06-03,AAPL,1.25
2024-06-03,MSFT,-0.5
2024-06-04,AAPL,
2024-06-04,MSFT,0.75
`)

	obs, err := LoadFactorsCSV(path)
	require.NoError(t, err)

	// The blank score on 2024-06-04 is a gap, not a zero.
	require.Len(t, obs, 3)
	assert.Equal(t, contracts.FactorObservation{
		Date:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Asset: "AAPL",
		Score: 1.25,
	}, obs[0])
	assert.Equal(t, -0.5, obs[1].Score)
	assert.Equal(t, "MSFT", obs[2].Asset)
}

func TestLoadFactorsCSV_BadRows(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad date", "date,asset,score\n06/03/2024,AAPL,1\n"},
		{"bad score", "date,asset,score\n2024-06-03,AAPL,abc\n"},
		{"wrong column count", "date,asset,score\n2024-06-03,AAPL\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFactorsCSV(writeCSV(t, "factors.csv", tc.content))
			require.Error(t, err)
		})
	}
}

func TestLoadPricesCSV(t *testing.T) {
	path := writeCSV(t, "prices.csv", `date,asset,price
2024-06-03,AAPL,190.50
2024-06-04,AAPL,192.25
2024-06-04,MSFT,
`)

	table, err := LoadPricesCSV(path)
	require.NoError(t, err)

	px, ok := table.Price("AAPL", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 190.50, px)

	_, ok = table.Price("MSFT", time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
	assert.False(t, table.Has("MSFT"))
}

func TestLoadGroupsCSV(t *testing.T) {
	path := writeCSV(t, "groups.csv", `asset,group
AAPL,tech
XOM,energy
`)

	groups, err := LoadGroupsCSV(path)
	require.NoError(t, err)

	label, ok := groups.Group("XOM", time.Time{})
	require.True(t, ok)
	assert.Equal(t, "energy", label)

	_, ok = groups.Group("UNKNOWN", time.Time{})
	assert.False(t, ok)
}

func TestLoadGroupsCSV_EmptyCell(t *testing.T) {
	_, err := LoadGroupsCSV(writeCSV(t, "groups.csv", "asset,group\nAAPL,\n"))
	require.Error(t, err)
}

func TestLoadFactorsCSV_MissingFile(t *testing.T) {
	_, err := LoadFactorsCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
