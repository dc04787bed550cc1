package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KRupuwu/Financial-Models/mc"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "table.csv")
	err := WriteTable(path, []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}, rows)
}

func TestWriteHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.csv")
	h := mc.Histogram{Edges: []float64{0, 1, 2}, Counts: []float64{3, 4}}
	require.NoError(t, WriteHistogram(path, h))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"bin_lo", "bin_hi", "count"}, rows[0])
	require.Equal(t, []string{"0", "1", "3"}, rows[1])
}

func TestWriteBands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.csv")
	probs := []float64{0.05, 0.95}
	bands := [][]float64{{1, 2, 3}, {4, 5, 6}}
	require.NoError(t, WriteBands(path, probs, bands))

	rows := readCSV(t, path)
	require.Equal(t, []string{"step", "p05", "p95"}, rows[0])
	require.Len(t, rows, 4)
	require.Equal(t, []string{"0", "1", "4"}, rows[1])
	require.Equal(t, []string{"1", "2", "5"}, rows[2])
}
