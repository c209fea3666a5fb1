package edged

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEditor(t *testing.T, keys []KeyEvent, opts ...Option) *Editor {
	t.Helper()
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { devnull.Close() })

	term := &fakeTerminal{reader: &fakeReader{keys: keys}, r: NewRenderer(80, 24, 8)}
	base := []Option{WithTerminal(term), WithInputOutput(devnull, devnull)}
	return New(append(base, opts...)...)
}

func TestEditorReadLineTypesAndAcceptsOnEnter(t *testing.T) {
	keys := []KeyEvent{{Code: 'h'}, {Code: 'i'}, {Code: keyEnter}}
	e := newTestEditor(t, keys)

	line, err := e.ReadLine("> ")
	require.NoError(t, err)
	require.Equal(t, "hi", line)
}

func TestEditorReadLineCtrlDOnEmptyBufferReturnsEOF(t *testing.T) {
	keys := []KeyEvent{{Code: 'D', Mods: ModCtrl}}
	e := newTestEditor(t, keys)

	line, err := e.ReadLine("> ")
	require.ErrorIs(t, err, ErrEOF)
	require.Equal(t, "", line)
}

func TestEditorReadLineCtrlCReturnsInterrupted(t *testing.T) {
	keys := []KeyEvent{{Code: 'x'}, {Code: 'C', Mods: ModCtrl}}
	e := newTestEditor(t, keys)

	line, err := e.ReadLine("> ")
	require.ErrorIs(t, err, ErrInterrupted)
	require.Equal(t, "", line)
}

func TestEditorReadLineAutoAddHistory(t *testing.T) {
	keys := []KeyEvent{{Code: 'o'}, {Code: 'k'}, {Code: keyEnter}}
	e := newTestEditor(t, keys, WithAutoAddHistory(true))

	line, err := e.ReadLine("> ")
	require.NoError(t, err)
	require.Equal(t, "ok", line)

	fh, ok := e.History().(*FileHistory)
	require.True(t, ok)
	require.Equal(t, 1, fh.Len())
	require.Equal(t, "ok", fh.Get(0))
}

func TestEditorWithHistoryCodecAppliesToDefaultFileHistory(t *testing.T) {
	keys := []KeyEvent{{Code: keyEnter}}
	e := newTestEditor(t, keys, WithHistoryCodec(VisEncoding{}))

	fh, ok := e.History().(*FileHistory)
	require.True(t, ok)
	require.Equal(t, "_HiStOrY_V2_", fh.codec.Header())
}

func TestEditorReadLineWithInitialSeedsBuffer(t *testing.T) {
	keys := []KeyEvent{{Code: keyEnter}}
	e := newTestEditor(t, keys)

	line, err := e.ReadLineWithInitial("> ", "preset")
	require.NoError(t, err)
	require.Equal(t, "preset", line)
}
