package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/record"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zap.NewNop(), nil)
	require.NoError(t, err)
	return s
}

func sampleRecord(name string) *record.FundRecord {
	rec := record.New()
	rec.FundName = name
	rec.NAV = record.NAV{Value: "₹145.20", AsOf: "01 Jan 2024"}
	rec.SourceURL = "https://example.com/mutual-funds/sample"
	rec.LastScraped = "2024-01-15"
	return rec
}

func TestSaveAndLoad(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save("sample-fund", sampleRecord("Sample Fund")))

	got, err := s.Load("sample-fund")
	require.NoError(t, err)
	assert.Equal(t, "Sample Fund", got.FundName)
	assert.Equal(t, "₹145.20", got.NAV.Value)
}

func TestSaveWritesSingleElementArray(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save("sample-fund", sampleRecord("Sample Fund")))

	data, err := os.ReadFile(filepath.Join(s.dir, "sample-fund.json"))
	require.NoError(t, err)

	var arr []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &arr))
	assert.Len(t, arr, 1)
}

func TestSaveLastWriteWins(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save("sample-fund", sampleRecord("First")))
	require.NoError(t, s.Save("sample-fund", sampleRecord("Second")))

	got, err := s.Load("sample-fund")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.FundName)
}

func TestLoadMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Load("never-saved")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSlugs(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save("beta-fund", sampleRecord("B")))
	require.NoError(t, s.Save("alpha-fund", sampleRecord("A")))

	slugs, err := s.Slugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha-fund", "beta-fund"}, slugs)
}

func TestPathEscapesAreContained(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save("../escape", sampleRecord("E")))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "escape.json", entries[0].Name())
}
