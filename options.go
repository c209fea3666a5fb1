package edged

import "os"

// Option configures an Editor at construction time.
type Option interface {
	apply(e *Editor)
}

type optionFunc func(e *Editor)

func (f optionFunc) apply(e *Editor) { f(e) }

// WithTTY configures the editor to read and write a specific terminal file
// instead of os.Stdin/os.Stdout.
func WithTTY(tty *os.File) Option {
	return optionFunc(func(e *Editor) { e.in, e.out = tty, tty })
}

// WithInputOutput configures distinct input/output files, for callers using
// pseudo-terminals or tests.
func WithInputOutput(in, out *os.File) Option {
	return optionFunc(func(e *Editor) { e.in, e.out = in, out })
}

// WithTerminal overrides the Terminal implementation entirely, bypassing
// the default golang.org/x/term-backed Unix terminal; primarily for tests.
func WithTerminal(t Terminal) Option {
	return optionFunc(func(e *Editor) { e.term = t })
}

// WithEditMode selects Emacs or Vi keybindings.
func WithEditMode(mode EditMode) Option {
	return optionFunc(func(e *Editor) { e.cfg.EditMode = mode })
}

// WithCompletionType selects the circular or list completion UI.
func WithCompletionType(t CompletionType) Option {
	return optionFunc(func(e *Editor) { e.cfg.CompletionType = t })
}

// WithMaxHistorySize caps the number of entries FileHistory retains; 0 (or
// a negative value) means no cap.
func WithMaxHistorySize(n int) Option {
	return optionFunc(func(e *Editor) { e.cfg.MaxHistorySize = n })
}

// WithHistoryDuplicates selects the duplicate-entry policy.
func WithHistoryDuplicates(d HistoryDuplicates) Option {
	return optionFunc(func(e *Editor) { e.cfg.HistoryDuplicates = d })
}

// WithHistoryIgnoreSpace, when true, skips adding lines that start with a
// space to history.
func WithHistoryIgnoreSpace(ignore bool) Option {
	return optionFunc(func(e *Editor) { e.cfg.HistoryIgnoreSpace = ignore })
}

// WithHistoryCodec installs c as the on-disk entry codec for the default
// FileHistory (e.g. VisEncoding{} for libedit-compatible history files). It
// has no effect if WithHistory has installed a non-FileHistory History.
// Applied after New constructs the default FileHistory, so ordering relative
// to other history options doesn't matter.
func WithHistoryCodec(c HistoryCodec) Option {
	return optionFunc(func(e *Editor) { e.pendingHistoryCodec = c })
}

// WithKeySeqTimeout overrides the escape-sequence follow-up timeout in
// milliseconds; -1 disables the timeout.
func WithKeySeqTimeout(ms int) Option {
	return optionFunc(func(e *Editor) { e.cfg.KeySeqTimeoutMS = ms })
}

// WithTabStop overrides the layout meter's tab width.
func WithTabStop(n int) Option {
	return optionFunc(func(e *Editor) { e.cfg.TabStop = n })
}

// WithIndentSize overrides the width Indent/Dedent apply.
func WithIndentSize(n int) Option {
	return optionFunc(func(e *Editor) { e.cfg.IndentSize = n })
}

// WithColorMode overrides whether the renderer/helpers assume ANSI color
// support.
func WithColorMode(m ColorMode) Option {
	return optionFunc(func(e *Editor) { e.cfg.ColorMode = m })
}

// WithAutoAddHistory, when true, makes ReadLine add every accepted line to
// history itself; otherwise the caller is responsible for calling
// History.Add.
func WithAutoAddHistory(auto bool) Option {
	return optionFunc(func(e *Editor) { e.cfg.AutoAddHistory = auto })
}

// WithCompletionPromptLimit sets the candidate count above which the list
// completion UI asks for confirmation before printing.
func WithCompletionPromptLimit(n int) Option {
	return optionFunc(func(e *Editor) { e.cfg.CompletionPromptLimit = n })
}

// WithCompleter attaches a Completer.
func WithCompleter(c Completer) Option {
	return optionFunc(func(e *Editor) { e.helper.Completer = c })
}

// WithHinter attaches a Hinter.
func WithHinter(h Hinter) Option {
	return optionFunc(func(e *Editor) { e.helper.Hinter = h })
}

// WithHighlighter attaches a Highlighter.
func WithHighlighter(h Highlighter) Option {
	return optionFunc(func(e *Editor) { e.helper.Highlighter = h })
}

// WithValidator attaches a Validator.
func WithValidator(v Validator) Option {
	return optionFunc(func(e *Editor) { e.helper.Validator = v })
}

// WithHistory overrides the History implementation (the default is a fresh
// unloaded FileHistory governed by the other history options).
func WithHistory(h History) Option {
	return optionFunc(func(e *Editor) { e.history = h })
}

// WithKillRingSize overrides the kill ring's capacity.
func WithKillRingSize(n int) Option {
	return optionFunc(func(e *Editor) { e.kills = NewKillRing(n) })
}
