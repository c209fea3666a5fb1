package edged

import (
	"os"
)

// Editor is the top-level readLine facade: it owns Config, the terminal
// capability surface, history, the shared kill ring, and the default helper,
// and runs the read loop for each ReadLine call.
type Editor struct {
	cfg     Config
	term    Terminal
	history History
	kills   *KillRing
	helper  Helper

	in, out *os.File

	pendingPrints chan string

	pendingHistoryCodec HistoryCodec
}

// New returns an Editor with cfg's defaults and DefaultHelper, reading from
// os.Stdin and writing to os.Stdout unless overridden by an Option.
func New(opts ...Option) *Editor {
	e := &Editor{
		cfg:           DefaultConfig(),
		in:            os.Stdin,
		out:           os.Stdout,
		kills:         NewKillRing(DefaultKillRingSize),
		helper:        DefaultHelper(),
		pendingPrints: make(chan string, 64),
	}
	for _, o := range opts {
		o.apply(e)
	}
	e.helper.fillDefaults()
	if e.history == nil {
		e.history = NewFileHistory(e.cfg)
	}
	if e.pendingHistoryCodec != nil {
		if fh, ok := e.history.(*FileHistory); ok {
			fh.SetCodec(e.pendingHistoryCodec)
		}
	}
	if e.term == nil {
		e.term = NewUnixTerminal(e.in, e.out, e.cfg.TabStop, e.cfg.ColorMode)
	}
	return e
}

// SetHelper replaces the attached Helper (completer/hinter/highlighter/
// validator bundle).
func (e *Editor) SetHelper(h Helper) { h.fillDefaults(); e.helper = h }

// History returns the editor's History, for callers that want to Load/Save
// a *FileHistory directly.
func (e *Editor) History() History { return e.history }

// SetHistory replaces the History implementation.
func (e *Editor) SetHistory(h History) { e.history = h }

// PrintAbove queues text to be written above the current prompt the next
// time the read loop is idle between key reads; it is the one allowance for
// concurrency the core makes, for external log lines that must not corrupt
// an in-progress render.
func (e *Editor) PrintAbove(text string) {
	select {
	case e.pendingPrints <- text:
	default:
	}
}

// ReadLine prompts with prompt and blocks for one line of input.
func (e *Editor) ReadLine(prompt string) (string, error) {
	return e.readLine(prompt, "")
}

// ReadLineWithInitial prompts with prompt, preseeding the buffer with
// initial text and placing the cursor at its end.
func (e *Editor) ReadLineWithInitial(prompt, initial string) (string, error) {
	return e.readLine(prompt, initial)
}

func (e *Editor) readLine(prompt, initial string) (string, error) {
	if err := e.term.EnterRawMode(); err != nil {
		return "", err
	}
	defer e.term.ExitRawMode()

	es := NewEditState(prompt, e.kills, e.helper, e.history)
	if initial != "" {
		es.SetInitial(initial)
	}
	is := NewInputState(e.cfg.EditMode)
	applyEditModeTimeout(&e.cfg, e.cfg.EditMode)
	d := NewDispatcher(es, e.term, e.cfg, is)

	e.term.Renderer().Reset()
	es.render(e.term.Renderer())
	e.term.Renderer().Flush(e.out)

	for {
		e.drainPendingPrints(es)
		if e.term.Resized() {
			cols, rows := e.term.Columns(), e.term.Rows()
			e.term.Renderer().SetSize(cols, rows)
			es.render(e.term.Renderer())
			e.term.Renderer().Flush(e.out)
		}

		ctx := EventContext{
			EditMode: e.cfg.EditMode,
			HasHint:  es.hint != "",
			Line:     es.Buffer.String(),
			Pos:      es.Buffer.Pos(),
		}
		cmd, err := is.NextCmd(e.term.Reader(), ctx)
		if err != nil {
			e.term.Renderer().Flush(e.out)
			return "", err
		}
		debugPrintf("%s\n", debugCmd(cmd))

		status, err := d.Execute(cmd)
		e.term.Renderer().Flush(e.out)

		switch status {
		case StatusAccepted:
			line := es.Buffer.String()
			if e.cfg.AutoAddHistory {
				e.history.Add(line)
			}
			return line, nil
		case StatusEOF:
			return "", err
		case StatusInterrupted:
			return "", err
		}
	}
}

func (e *Editor) drainPendingPrints(es *EditState) {
	for {
		select {
		case text := <-e.pendingPrints:
			r := e.term.Renderer()
			r.moveTo(Position{})
			_, _ = e.out.WriteString(text)
			es.render(r)
			r.Flush(e.out)
		default:
			return
		}
	}
}

// applyEditModeTimeout re-derives KeySeqTimeoutMS from mode (Emacs: -1, no
// timeout; Vi: 500ms) unless the caller has already set a non-default value
// via WithKeySeqTimeout.
func applyEditModeTimeout(cfg *Config, mode EditMode) {
	if cfg.KeySeqTimeoutMS != -1 {
		return
	}
	if mode == Vi {
		cfg.KeySeqTimeoutMS = 500
	}
}
