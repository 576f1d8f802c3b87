package feed

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const candleCSV = `timestamp,open,high,low,close,volume
2024-01-02T00:00:00Z,30100,30300,30000,30200,1200
2024-01-01T00:00:00Z,30000,30200,29900,30100,1000
not-a-timestamp,1,2,3,4,5
2024-01-03T00:00:00Z,30200,30400,30100,30300,1100
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "btc.csv", []byte(candleCSV))
	cs, err := LoadCSV(path, "BTC")
	require.NoError(t, err)

	// Header and malformed row skipped; output sorted by time.
	require.Len(t, cs, 3)
	assert.Equal(t, "BTC", cs[0].Symbol)
	assert.InDelta(t, 30100.0, cs[0].Close, 1e-9)
	assert.InDelta(t, 30200.0, cs[1].Close, 1e-9)
	assert.InDelta(t, 30300.0, cs[2].Close, 1e-9)
	assert.True(t, cs[0].Time.Before(cs[1].Time))
}

func TestLoadCSVUnixTimestamps(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "btc.csv", []byte("1704067200,30000,30200,29900,30100,1000\n"))
	cs, err := LoadCSV(path, "BTC")
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, int64(1704067200), cs[0].Time.Unix())
}

func TestLoadCSVGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "btc.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(candleCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	cs, err := LoadCSV(path, "BTC")
	require.NoError(t, err)
	assert.Len(t, cs, 3)
}

func TestLoadCSVXz(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "btc.csv.xz")
	f, err := os.Create(path)
	require.NoError(t, err)
	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = xw.Write([]byte(candleCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())

	cs, err := LoadCSV(path, "BTC")
	require.NoError(t, err)
	assert.Len(t, cs, 3)
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), "BTC")
	assert.Error(t, err)
}

func TestLoadCSVRejectsNonPositiveClose(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "btc.csv", []byte("2024-01-01T00:00:00Z,1,1,1,0,10\n"))
	cs, err := LoadCSV(path, "BTC")
	require.NoError(t, err)
	assert.Empty(t, cs)
}
