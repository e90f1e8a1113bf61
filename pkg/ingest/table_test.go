package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_RaggedRows(t *testing.T) {
	table, err := ReadCSV("seats", strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "", cell(table.Rows[0], 2))
	assert.Equal(t, "3", cell(table.Rows[1], 2))
}

func TestReadCSV_Empty(t *testing.T) {
	table, err := ReadCSV("seats", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)

	_, err = ParseSeats(table)
	assert.Error(t, err)
}

func TestReadCSVFile_Latin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.csv")
	// "José" encoded as ISO-8859-1
	data := []byte("RollNo,Name\n1,Jos\xe9\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	table, err := ReadCSVFile("candidates", path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "José", table.Rows[0][1])
}

func TestReadCSVFile_NotFound(t *testing.T) {
	_, err := ReadCSVFile("seats", "/nonexistent/seats.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seats file")
}

func TestFromValues(t *testing.T) {
	table := FromValues("options", [][]interface{}{
		{"RollNo", "OPNO", "Optn"},
		{float64(12), 1, "BGPHKKM"},
		{"13", nil},
	})

	assert.Equal(t, []string{"RollNo", "OPNO", "Optn"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"12", "1", "BGPHKKM"}, table.Rows[0])
	assert.Equal(t, []string{"13", ""}, table.Rows[1])
}
