package edged

// EditState holds everything the dispatcher needs for one readLine call: the
// prompt, the line being edited, cursor bookkeeping for the renderer, the
// attached helper, and a read-only view onto history for it to consult.
type EditState struct {
	prompt        string
	styledPrompt  string
	promptCols    int
	promptRows    int

	Buffer  *LineBuffer
	changes *Changeset
	kills   *KillRing

	lastRenderRows int
	savedLine      string
	browsingHist   bool

	hint string

	changed       bool
	highlightChar bool

	helper  Helper
	history History
	histIdx int
}

// NewEditState returns a fresh edit state for one ReadLine call.
func NewEditState(prompt string, kills *KillRing, helper Helper, hist History) *EditState {
	helper.fillDefaults()
	es := &EditState{
		prompt:  prompt,
		Buffer:  NewLineBuffer(),
		changes: &Changeset{},
		kills:   kills,
		helper:  helper,
		history: hist,
	}
	es.Buffer.AddListener(es.changes)
	if hist != nil {
		es.histIdx = hist.Len()
	}
	return es
}

// SetInitial seeds the buffer with text and places the cursor at the end,
// for ReadLineWithInitial.
func (es *EditState) SetInitial(text string) {
	es.Buffer.Update(text, len(text))
}

func (es *EditState) helperContext() Context {
	return Context{History: es.history, HistoryIndex: es.histIdx}
}

// refreshHint recomputes the inline hint from the attached Hinter.
func (es *EditState) refreshHint() {
	if text, ok := es.helper.Hinter.Hint(es.Buffer.String(), es.Buffer.Pos(), es.helperContext()); ok {
		es.hint = es.helper.Highlighter.HighlightHint(text)
	} else {
		es.hint = ""
	}
}

// styledLine returns the buffer text run through the attached Highlighter.
func (es *EditState) styledLine() string {
	return es.helper.Highlighter.Highlight(es.Buffer.String(), es.Buffer.Pos())
}

// render asks r to redraw the current prompt/line/hint against the cursor
// position, refreshing the hint first.
func (es *EditState) render(r *Renderer) {
	es.refreshHint()
	prompt := es.helper.Highlighter.HighlightPrompt(es.prompt)
	r.RefreshLine(prompt, es.styledLine(), es.hint, es.Buffer.Pos())
}

// saveForHistoryBrowse stashes the current buffer text the first time
// history browsing starts, so NextHistory/PreviousHistory can restore it
// when the caller returns to the bottom of history.
func (es *EditState) saveForHistoryBrowse() {
	if !es.browsingHist {
		es.savedLine = es.Buffer.String()
		es.browsingHist = true
	}
}

// loadHistory replaces the buffer with history entry i and updates the
// tracked index.
func (es *EditState) loadHistory(i int) {
	es.histIdx = i
	es.Buffer.Update(es.history.Get(i), len(es.history.Get(i)))
}

// returnFromHistoryBrowse restores the line that was being edited before
// history browsing began.
func (es *EditState) returnFromHistoryBrowse() {
	es.histIdx = es.history.Len()
	es.Buffer.Update(es.savedLine, len(es.savedLine))
	es.browsingHist = false
}
