package edged

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileHistoryAddAndGet(t *testing.T) {
	cfg := DefaultConfig()
	h := NewFileHistory(cfg)

	require.True(t, h.Add("one"))
	require.True(t, h.Add("two"))
	require.False(t, h.Add("two")) // consecutive duplicate, ignored by default
	require.Equal(t, 2, h.Len())
	require.Equal(t, "one", h.Get(0))
	require.Equal(t, "two", h.Get(1))
}

func TestFileHistoryAlwaysAdd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	h := NewFileHistory(cfg)

	h.Add("same")
	h.Add("same")
	require.Equal(t, 2, h.Len())
}

func TestFileHistoryIgnoreSpace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryIgnoreSpace = true
	h := NewFileHistory(cfg)

	require.False(t, h.Add(" secret"))
	require.True(t, h.Add("visible"))
	require.Equal(t, 1, h.Len())
}

func TestFileHistoryMaxSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistorySize = 2
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	h := NewFileHistory(cfg)

	h.Add("a")
	h.Add("b")
	h.Add("c")
	require.Equal(t, 2, h.Len())
	require.Equal(t, "b", h.Get(0))
	require.Equal(t, "c", h.Get(1))
}

func TestFileHistoryStartsWithAndSearch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	h := NewFileHistory(cfg)
	h.Add("select a")
	h.Add("select b")
	h.Add("insert c")

	idx, ok := h.StartsWith("select", 2, SearchReverse)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	idx, pos, ok := h.Search("ert", 0, SearchForward)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.Equal(t, 3, pos) // "insert c" -> "ert" at offset 3
}

func TestFileHistorySaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	h := NewFileHistory(cfg)
	h.Add("plain")
	h.Add("with\\backslash")
	h.Add("with\nnewline")

	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, h.Save(path))

	loaded := NewFileHistory(cfg)
	require.NoError(t, loaded.Load(path))
	require.Equal(t, h.entries, loaded.entries)
}

func TestFileHistoryLoadMissingFileIsNotError(t *testing.T) {
	cfg := DefaultConfig()
	h := NewFileHistory(cfg)
	err := h.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Equal(t, 0, h.Len())
}

func TestVisEncodingRoundTripsIndependently(t *testing.T) {
	var codec VisEncoding
	encoded := codec.Encode("hello \x01world\n")
	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "hello \x01world\n", decoded)
}

func TestFileHistorySetCodecUsesVisEncodingOnDisk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	h := NewFileHistory(cfg)
	h.SetCodec(VisEncoding{})
	h.Add("plain")
	h.Add("with\x01control")

	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, h.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "_HiStOrY_V2_")
	require.NotContains(t, string(raw), "#V2")

	loaded := NewFileHistory(cfg)
	loaded.SetCodec(VisEncoding{})
	require.NoError(t, loaded.Load(path))
	require.Equal(t, h.entries, loaded.entries)
}

func TestFileHistoryEmptyLineRejected(t *testing.T) {
	h := NewFileHistory(DefaultConfig())
	require.False(t, h.Add(""))
	require.True(t, h.IsEmpty())
}
