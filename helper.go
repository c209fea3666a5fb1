package edged

// Context gives helpers read-only access to history without letting them
// mutate editor state, per the data model's "Context for helpers".
type Context struct {
	History      History
	HistoryIndex int
}

// Completer is consulted by the completion loop (component K). It takes the
// currently edited line and cursor byte position and returns the byte offset
// where the completed word starts, together with the candidate replacement
// strings. "ls /usr/loc" -> (3, ["/usr/local/"]).
type Completer interface {
	Complete(line string, pos int) (start int, candidates []string, err error)
}

// CompleterFunc adapts a function to a Completer.
type CompleterFunc func(line string, pos int) (int, []string, error)

func (f CompleterFunc) Complete(line string, pos int) (int, []string, error) { return f(line, pos) }

// noopCompleter returns no candidates; it is the default Completer when none
// is configured, per the Helper composition design note.
type noopCompleter struct{}

func (noopCompleter) Complete(string, int) (int, []string, error) { return 0, nil, nil }

// Hinter suggests inline completion text displayed dimmed to the right of
// the cursor. Supplements spec.md's Edit State "current hint" field with the
// interface original_source/src/hint.rs defines.
type Hinter interface {
	Hint(line string, pos int, ctx Context) (text string, ok bool)
}

type noopHinter struct{}

func (noopHinter) Hint(string, int, Context) (string, bool) { return "", false }

// HistoryHinter suggests the remainder of the most recent history entry that
// starts with the current line, when the cursor is at end-of-line.
type HistoryHinter struct{}

func (HistoryHinter) Hint(line string, pos int, ctx Context) (string, bool) {
	if line == "" || pos < len(line) || ctx.History == nil {
		return "", false
	}
	start := ctx.HistoryIndex
	if start == ctx.History.Len() {
		start--
	}
	if start < 0 {
		return "", false
	}
	idx, ok := ctx.History.StartsWith(line, start, SearchReverse)
	if !ok {
		return "", false
	}
	entry := ctx.History.Get(idx)
	if entry == line {
		return "", false
	}
	return entry[len(line):], true
}

// Highlighter applies ANSI styling to the line, prompt, hint, or a
// completion candidate before it is handed to the Renderer. Implementations
// return their input unchanged by default. Grounded on
// original_source/src/highlight.rs: styling is embedded directly in the
// returned string (there is no separate span-tracking model), since Layout's
// Meter already treats CSI sequences as zero-width.
type Highlighter interface {
	Highlight(line string, pos int) string
	HighlightPrompt(prompt string) string
	HighlightHint(hint string) string
	HighlightCandidate(candidate string) string
}

type noopHighlighter struct{}

func (noopHighlighter) Highlight(line string, pos int) string    { return line }
func (noopHighlighter) HighlightPrompt(prompt string) string     { return prompt }
func (noopHighlighter) HighlightHint(hint string) string         { return hint }
func (noopHighlighter) HighlightCandidate(candidate string) string { return candidate }

// ValidationResult is the outcome of a Validator check at AcceptOrInsertLine
// time.
type ValidationResult int

const (
	Valid ValidationResult = iota
	Incomplete
	Invalid
)

// ValidationContext lets a Validator mutate the buffer (e.g. auto-indent) as
// part of the same change-log group the accept command opened, via Invoke.
type ValidationContext struct {
	es *EditState
}

// Invoke runs cmd against the edit state the validator was called with,
// inside the validator's own nested change-group.
func (v ValidationContext) Invoke(cmd Cmd, d *Dispatcher) {
	v.es.changes.Begin()
	_, _ = d.Execute(cmd)
	v.es.changes.End()
}

// Validator decides whether the buffer is ready to submit. A non-empty
// message accompanies Invalid or Incomplete results and is displayed as a
// hint-like suffix.
type Validator interface {
	Validate(line string, ctx ValidationContext) (result ValidationResult, message string)
}

type noopValidator struct{}

func (noopValidator) Validate(string, ValidationContext) (ValidationResult, string) {
	return Valid, ""
}

// Helper bundles the four optional user concerns behind independent
// interfaces with no-op defaults, per DESIGN NOTES "Helper composition": a
// caller may supply any subset, and the zero Helper is fully usable.
type Helper struct {
	Completer   Completer
	Hinter      Hinter
	Highlighter Highlighter
	Validator   Validator
}

// DefaultHelper returns a Helper with every field set to its no-op default.
func DefaultHelper() Helper {
	return Helper{
		Completer:   noopCompleter{},
		Hinter:      noopHinter{},
		Highlighter: noopHighlighter{},
		Validator:   noopValidator{},
	}
}

func (h *Helper) fillDefaults() {
	if h.Completer == nil {
		h.Completer = noopCompleter{}
	}
	if h.Hinter == nil {
		h.Hinter = noopHinter{}
	}
	if h.Highlighter == nil {
		h.Highlighter = noopHighlighter{}
	}
	if h.Validator == nil {
		h.Validator = noopValidator{}
	}
}
