package edged

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTerminal struct {
	reader *fakeReader
	r      *Renderer
}

func (f *fakeTerminal) IsTTY() bool          { return true }
func (f *fakeTerminal) EnterRawMode() error  { return nil }
func (f *fakeTerminal) ExitRawMode() error   { return nil }
func (f *fakeTerminal) ColorsEnabled() bool  { return false }
func (f *fakeTerminal) Columns() int         { return f.r.Columns() }
func (f *fakeTerminal) Rows() int            { return f.r.Rows() }
func (f *fakeTerminal) Reader() RawReader    { return f.reader }
func (f *fakeTerminal) Renderer() *Renderer  { return f.r }
func (f *fakeTerminal) Write(p []byte) (int, error) { return len(p), nil }
func (f *fakeTerminal) Resized() bool        { return false }

func newTestDispatcher(cfg Config, hist History) (*Dispatcher, *EditState, *fakeTerminal) {
	kr := NewKillRing(10)
	es := NewEditState("> ", kr, Helper{}, hist)
	term := &fakeTerminal{reader: &fakeReader{}, r: NewRenderer(80, 24, 8)}
	is := NewInputState(cfg.EditMode)
	d := NewDispatcher(es, term, cfg, is)
	return d, es, term
}

func TestDispatchSelfInsertAndKillYank(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)

	_, err := d.Execute(Cmd{Kind: CmdSelfInsert, Count: 1, Char: 'a'})
	require.NoError(t, err)
	require.Equal(t, "a", es.Buffer.String())

	status, err := d.Execute(Cmd{Kind: CmdKill, Movement: Movement{Kind: MoveBackwardChar, Count: 1}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "", es.Buffer.String())

	status, err = d.Execute(simpleCmd(CmdYank))
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "a", es.Buffer.String())
}

func TestDispatchUndo(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)

	// A space between the two letters breaks undo coalescing (see
	// TestChangesetUndoDoesNotCoalesceAcrossNonAlnum), so each insert below
	// undoes as a separate step.
	d.Execute(Cmd{Kind: CmdSelfInsert, Count: 1, Char: 'a'})
	d.Execute(Cmd{Kind: CmdSelfInsert, Count: 1, Char: ' '})
	d.Execute(Cmd{Kind: CmdSelfInsert, Count: 1, Char: 'b'})
	require.Equal(t, "a b", es.Buffer.String())

	status, err := d.Execute(Cmd{Kind: CmdUndo, Count: 1})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "a ", es.Buffer.String())
}

func TestDispatchAcceptLine(t *testing.T) {
	d, _, _ := newTestDispatcher(DefaultConfig(), nil)
	status, err := d.Execute(simpleCmd(CmdAcceptLine))
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, status)
}

func TestDispatchEndOfFileEmptyBufferEOF(t *testing.T) {
	d, _, _ := newTestDispatcher(DefaultConfig(), nil)
	status, err := d.Execute(simpleCmd(CmdEndOfFile))
	require.ErrorIs(t, err, ErrEOF)
	require.Equal(t, StatusEOF, status)
}

func TestDispatchEndOfFileNonEmptyDeletesForward(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("ab", 0)

	status, err := d.Execute(simpleCmd(CmdEndOfFile))
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "b", es.Buffer.String())
}

func TestDispatchEndOfFileViAcceptsNonEmptyLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EditMode = Vi
	d, es, _ := newTestDispatcher(cfg, nil)
	es.Buffer.Update("ab", 2)

	status, err := d.Execute(simpleCmd(CmdEndOfFile))
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, status)
}

func TestDispatchInterrupt(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("hello", 2)

	status, err := d.Execute(simpleCmd(CmdInterrupt))
	require.ErrorIs(t, err, ErrInterrupted)
	require.Equal(t, StatusInterrupted, status)
	require.Equal(t, es.Buffer.Len(), es.Buffer.Pos())
}

func TestDispatchApplyMoveBackwardWord(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("foo bar", 7)

	status, err := d.Execute(Cmd{Kind: CmdMove, Movement: Movement{Kind: MoveBackwardWord, Count: 1}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, 4, es.Buffer.Pos())
}

func TestDispatchApplyMoveViCharSearchFindForward(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("hello world", 0)

	status, err := d.Execute(Cmd{Kind: CmdMove, Movement: Movement{
		Kind: MoveViCharSearch, Count: 1, CharSearch: CharSearchFindForward, Char: 'r',
	}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, 8, es.Buffer.Pos()) // "hello wo|rld" -> lands on 'r'
}

func TestDispatchApplyMoveViCharSearchTillForward(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("hello world", 0)

	status, err := d.Execute(Cmd{Kind: CmdMove, Movement: Movement{
		Kind: MoveViCharSearch, Count: 1, CharSearch: CharSearchTillForward, Char: 'r',
	}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, 7, es.Buffer.Pos()) // "hello w|orld" -> stops one short of 'r'
}

func TestDispatchKillMoveViCharSearchFindForwardIncludesTarget(t *testing.T) {
	d, es, _ := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("hello world", 0)

	status, err := d.Execute(Cmd{Kind: CmdKill, Movement: Movement{
		Kind: MoveViCharSearch, Count: 1, CharSearch: CharSearchFindForward, Char: 'r',
	}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "ld", es.Buffer.String()) // kill boundary includes the matched 'r'
}

func TestDispatchApplyMoveViCharSearchNoMatchBeeps(t *testing.T) {
	d, es, term := newTestDispatcher(DefaultConfig(), nil)
	es.Buffer.Update("hello world", 0)

	status, err := d.Execute(Cmd{Kind: CmdMove, Movement: Movement{
		Kind: MoveViCharSearch, Count: 1, CharSearch: CharSearchFindForward, Char: 'z',
	}})
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, 0, es.Buffer.Pos())
	require.Contains(t, term.r.outbuf.String(), "\a")
}

func TestDispatchClearScreenDoesNotError(t *testing.T) {
	d, _, _ := newTestDispatcher(DefaultConfig(), nil)
	status, err := d.Execute(simpleCmd(CmdClearScreen))
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
}

func TestDispatchHistorySearchReverseMatchesSubstring(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	hist := NewFileHistory(cfg)
	hist.Add("select a")
	hist.Add("select b")
	hist.Add("insert c")

	d, es, term := newTestDispatcher(cfg, hist)
	term.reader.keys = []KeyEvent{{Code: 'a'}, {Code: keyEnter}}

	status, err := d.Execute(simpleCmd(CmdReverseSearchHistory))
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "select a", es.Buffer.String())
	require.Equal(t, 0, es.histIdx)
}

func TestDispatchHistorySearchAbortRestoresLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryDuplicates = HistoryAlwaysAdd
	hist := NewFileHistory(cfg)
	hist.Add("select a")

	d, es, term := newTestDispatcher(cfg, hist)
	es.Buffer.Update("unsaved", 7)
	term.reader.keys = []KeyEvent{{Code: 'G', Mods: ModCtrl}}

	status, err := d.Execute(simpleCmd(CmdReverseSearchHistory))
	require.NoError(t, err)
	require.Equal(t, StatusContinue, status)
	require.Equal(t, "unsaved", es.Buffer.String())
}
