package edged

import (
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// TestEditorReadLineOverRealPTY exercises Editor.ReadLine against an actual
// pseudo-terminal end to end: raw mode, escape-sequence decoding and
// rendering all run for real, unlike the fakeTerminal-based tests, which
// replaces the teacher's cmd/termdebug as the thing that keeps creack/pty
// in this module's dependency graph.
func TestEditorReadLineOverRealPTY(t *testing.T) {
	ptm, pts, err := pty.Open()
	require.NoError(t, err)
	defer ptm.Close()
	defer pts.Close()

	go io.Copy(io.Discard, ptm) // drain the editor's rendered output

	term := NewUnixTerminal(pts, pts, 8, ColorDisabled)
	e := New(WithTerminal(term))

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := e.ReadLine("> ")
		done <- result{line, err}
	}()

	time.Sleep(50 * time.Millisecond) // let ReadLine enter raw mode first
	_, err = ptm.Write([]byte("hi\r"))
	require.NoError(t, err)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Equal(t, "hi", r.line)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadLine did not return over the pty")
	}
}

func TestEditorReadLineOverRealPTYCtrlD(t *testing.T) {
	ptm, pts, err := pty.Open()
	require.NoError(t, err)
	defer ptm.Close()
	defer pts.Close()

	go io.Copy(io.Discard, ptm)

	term := NewUnixTerminal(pts, pts, 8, ColorDisabled)
	e := New(WithTerminal(term))

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := e.ReadLine("> ")
		done <- result{line, err}
	}()

	time.Sleep(50 * time.Millisecond)
	_, err = ptm.Write([]byte{0x04}) // Ctrl-D on an empty line
	require.NoError(t, err)

	select {
	case r := <-done:
		require.ErrorIs(t, r.err, ErrEOF)
		require.Equal(t, "", r.line)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadLine did not return over the pty")
	}
}
