package edged

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongestCommonPrefix(t *testing.T) {
	require.Equal(t, "", longestCommonPrefix(nil))
	require.Equal(t, "select", longestCommonPrefix([]string{"select"}))
	require.Equal(t, "sel", longestCommonPrefix([]string{"select", "seldom"}))
	require.Equal(t, "", longestCommonPrefix([]string{"select", "insert"}))
}

func newCompletionDispatcher(completer Completer) (*Dispatcher, *EditState, *fakeTerminal) {
	cfg := DefaultConfig()
	kr := NewKillRing(10)
	helper := Helper{Completer: completer}
	es := NewEditState("> ", kr, helper, nil)
	term := &fakeTerminal{reader: &fakeReader{}, r: NewRenderer(80, 24, 8)}
	is := NewInputState(cfg.EditMode)
	d := NewDispatcher(es, term, cfg, is)
	return d, es, term
}

func TestRunCompletionSingleCandidateReplacesWord(t *testing.T) {
	completer := CompleterFunc(func(line string, pos int) (int, []string, error) {
		return 0, []string{"select"}, nil
	})
	d, es, _ := newCompletionDispatcher(completer)
	es.Buffer.Update("sel", 3)

	d.runCompletion(false)
	require.Equal(t, "select", es.Buffer.String())
}

func TestRunCompletionNoCandidatesBeeps(t *testing.T) {
	completer := CompleterFunc(func(line string, pos int) (int, []string, error) {
		return 0, nil, nil
	})
	d, es, term := newCompletionDispatcher(completer)
	es.Buffer.Update("xyz", 3)

	d.runCompletion(false)

	var buf bytes.Buffer
	term.r.Flush(&buf)
	require.Contains(t, buf.String(), "\a")
}

func TestRunCompletionMultipleCandidatesExtendsLCPThenCircular(t *testing.T) {
	completer := CompleterFunc(func(line string, pos int) (int, []string, error) {
		return 0, []string{"select", "seldom"}, nil
	})
	d, es, term := newCompletionDispatcher(completer)
	es.Buffer.Update("se", 2)
	term.reader.keys = []KeyEvent{{Code: keyEscape}}

	d.runCompletion(false)
	// LCP "sel" is applied first (start of the circular loop's saved line),
	// then the circular loop shows candidate 0 before Esc restores it.
	require.Equal(t, "sel", es.Buffer.String())
}

func TestCompletionCircularTabCyclesAndWrapsToOriginal(t *testing.T) {
	completer := CompleterFunc(func(line string, pos int) (int, []string, error) {
		return 0, []string{"foo", "bar"}, nil
	})
	d, es, term := newCompletionDispatcher(completer)
	es.Buffer.Update("x", 1)
	term.reader.keys = []KeyEvent{{Code: keyTab}, {Code: keyTab}}

	d.runCompletion(false)
	// First apply(0)="foo" happens before the loop starts; first Tab -> idx 1
	// ("bar"); second Tab -> idx 2 == n, restoring the saved original "x".
	require.Equal(t, "x", es.Buffer.String())
}

func TestCompletionCircularEscRestoresOriginal(t *testing.T) {
	completer := CompleterFunc(func(line string, pos int) (int, []string, error) {
		return 0, []string{"foo", "bar"}, nil
	})
	d, es, term := newCompletionDispatcher(completer)
	es.Buffer.Update("x", 1)
	term.reader.keys = []KeyEvent{{Code: keyEscape}}

	d.runCompletion(false)
	require.Equal(t, "x", es.Buffer.String())
}
