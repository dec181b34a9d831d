package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"jdeprez/immoharvester/internal/harvester"
)

func sampleRecord(locality string) harvester.Record {
	return harvester.Record{
		Locality:     harvester.Some(locality),
		PropertyType: harvester.Some("HOUSE"),
		Price:        harvester.Some(float64(250000)),
		SaleType:     harvester.Some("sale"),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listings.csv")
	sink, err := NewCSVSink(path)
	assert.NoError(t, err)

	assert.NoError(t, sink.Append(sampleRecord("2800")))
	assert.NoError(t, sink.Append(sampleRecord("1000")))
	assert.NoError(t, sink.Close())

	rows := readCSV(t, path)
	assert.Len(t, rows, 3)
	assert.Equal(t, harvester.Columns, rows[0])
	assert.Equal(t, "2800", rows[1][0])
	assert.Equal(t, "1000", rows[2][0])
	// Absent fields carry the sentinel, so every row has the full width
	assert.Equal(t, "false", rows[1][len(harvester.Columns)-1])
}

func TestCSVSinkHeaderOnceUnderConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	sink, err := NewCSVSink(path)
	assert.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sink.Append(sampleRecord("9000")))
		}()
	}
	wg.Wait()
	assert.NoError(t, sink.Close())

	rows := readCSV(t, path)
	assert.Len(t, rows, writers+1)

	// Exactly one header row, and it precedes all data rows
	assert.Equal(t, harvester.Columns, rows[0])
	for _, row := range rows[1:] {
		assert.NotEqual(t, harvester.Columns, row)
		assert.Len(t, row, len(harvester.Columns))
	}
}

func TestCSVSinkReusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")

	first, err := NewCSVSink(path)
	assert.NoError(t, err)
	assert.NoError(t, first.Append(sampleRecord("2800")))
	assert.NoError(t, first.Close())

	// A second run appends without writing the header again
	second, err := NewCSVSink(path)
	assert.NoError(t, err)
	assert.NoError(t, second.Append(sampleRecord("1000")))
	assert.NoError(t, second.Close())

	rows := readCSV(t, path)
	assert.Len(t, rows, 3)
	assert.Equal(t, harvester.Columns, rows[0])
}

func TestMultiSink(t *testing.T) {
	dir := t.TempDir()
	first, err := NewCSVSink(filepath.Join(dir, "a.csv"))
	assert.NoError(t, err)
	second, err := NewCSVSink(filepath.Join(dir, "b.csv"))
	assert.NoError(t, err)

	multi := NewMultiSink(first, second)
	assert.NoError(t, multi.Append(sampleRecord("2800")))
	assert.NoError(t, multi.Close())

	assert.Len(t, readCSV(t, filepath.Join(dir, "a.csv")), 2)
	assert.Len(t, readCSV(t, filepath.Join(dir, "b.csv")), 2)
}
