package edged

// Status reports how a command resolved the current readLine call.
type Status int

const (
	StatusContinue Status = iota
	StatusAccepted
	StatusEOF
	StatusInterrupted
)

// Dispatcher executes a Cmd against an EditState, driving the Renderer and
// Kill Ring, and owns the nested completion/history-search sub-loops that
// temporarily take over key reading.
type Dispatcher struct {
	es   *EditState
	term Terminal
	cfg  Config
	is   *InputState
}

// NewDispatcher returns a dispatcher wired to the given edit state and
// terminal, for a readLine call running under cfg and is.
func NewDispatcher(es *EditState, term Terminal, cfg Config, is *InputState) *Dispatcher {
	return &Dispatcher{es: es, term: term, cfg: cfg, is: is}
}

// Execute runs one command to completion, returning the line's disposition
// and any terminal error (Io, Eof, Interrupted).
func (d *Dispatcher) Execute(cmd Cmd) (Status, error) {
	es := d.es
	switch cmd.Kind {
	case CmdNoop:
		return StatusContinue, nil

	case CmdSelfInsert:
		n := cmd.Count
		if n <= 0 {
			n = 1
		}
		es.Buffer.Insert(cmd.Char, n)
		es.kills.Reset()

	case CmdInsert:
		es.Buffer.InsertStr(es.Buffer.Pos(), cmd.Text)
		es.kills.Reset()

	case CmdMove:
		mk := cmd.Movement.Kind
		if es.hint != "" && es.Buffer.Pos() == es.Buffer.Len() &&
			(mk == MoveForwardChar || mk == MoveEndOfLine) {
			// Right/End at end of line accept the displayed hint.
			d.acceptHint()
		} else {
			d.applyMove(cmd.Movement)
		}
		es.kills.Reset()

	case CmdKill:
		text, dir := d.killRange(cmd.Movement)
		if text != "" {
			es.kills.Kill(text, dir)
		} else {
			d.term.Renderer().Beep()
		}

	case CmdReplace:
		text, _ := d.killRange(cmd.Movement)
		if text != "" {
			es.kills.Kill(text, true)
		}

	case CmdYank:
		if text, ok := es.kills.Yank(); ok {
			es.Buffer.Yank(text)
		} else {
			d.term.Renderer().Beep()
		}

	case CmdYankPop:
		if prevSize, text, ok := es.kills.YankPop(); ok {
			es.Buffer.YankPop(prevSize, text)
		} else {
			d.term.Renderer().Beep()
		}

	case CmdTransposeChars:
		if !es.Buffer.TransposeChars() {
			d.term.Renderer().Beep()
		}

	case CmdTransposeWords:
		if !es.Buffer.TransposeWords(WordEmacs) {
			d.term.Renderer().Beep()
		}

	case CmdCapitalizeWord:
		es.Buffer.EditWord(ActionCapitalize, WordEmacs)
	case CmdUpcaseWord:
		es.Buffer.EditWord(ActionUppercase, WordEmacs)
	case CmdDowncaseWord:
		es.Buffer.EditWord(ActionLowercase, WordEmacs)

	case CmdIndent:
		start, end := d.movementRange(cmd.Movement)
		es.Buffer.Indent(start, end, d.cfg.IndentSize, false)
	case CmdDedent:
		start, end := d.movementRange(cmd.Movement)
		es.Buffer.Indent(start, end, d.cfg.IndentSize, true)

	case CmdUndo:
		n := cmd.Count
		if n <= 0 {
			n = 1
		}
		if !es.changes.Undo(es.Buffer, n) {
			d.term.Renderer().Beep()
		}

	case CmdClearScreen:
		d.term.Renderer().ClearScreen()

	case CmdNewline:
		es.Buffer.Insert('\n', 1)

	case CmdAcceptLine:
		return StatusAccepted, nil

	case CmdAcceptOrInsertLine:
		return d.acceptOrInsert(cmd)

	case CmdEndOfFile:
		if d.cfg.EditMode == Vi {
			if es.Buffer.Len() > 0 {
				return StatusAccepted, nil
			}
			return StatusEOF, ErrEOF
		}
		if es.Buffer.Len() > 0 {
			es.Buffer.Delete(1)
		} else {
			return StatusEOF, ErrEOF
		}

	case CmdInterrupt:
		es.Buffer.MoveBufferEnd()
		return StatusInterrupted, ErrInterrupted

	case CmdComplete:
		d.runCompletion(false)
	case CmdCompleteBackward:
		d.runCompletion(true)
	case CmdCompleteHint:
		d.acceptHint()

	case CmdReverseSearchHistory:
		return d.historySearch(SearchReverse)
	case CmdForwardSearchHistory:
		return d.historySearch(SearchForward)

	case CmdNextHistory:
		d.historyStep(+1)
	case CmdPreviousHistory:
		d.historyStep(-1)
	case CmdBeginningOfHistory:
		if es.history != nil && !es.history.IsEmpty() {
			es.saveForHistoryBrowse()
			es.loadHistory(0)
		}
	case CmdEndOfHistory:
		if es.history != nil {
			es.returnFromHistoryBrowse()
		}

	case CmdLineUpOrPreviousHistory:
		n := cmd.Count
		if n <= 0 {
			n = 1
		}
		if !es.Buffer.MoveLineUp(n) {
			d.historyStep(-1)
		}
	case CmdLineDownOrNextHistory:
		n := cmd.Count
		if n <= 0 {
			n = 1
		}
		if !es.Buffer.MoveLineDown(n) {
			d.historyStep(+1)
		}

	case CmdQuotedInsert:
		if r, err := d.term.Reader().NextChar(); err == nil {
			es.Buffer.Insert(r, 1)
		}

	case CmdReplaceChar:
		if r, err := d.term.Reader().NextChar(); err == nil {
			es.Buffer.Replace(es.Buffer.Pos(), es.Buffer.NextGraphemeEnd(), string(r))
		}

	case CmdOverwrite:
		// No key puts InputState into modeReplace and SelfInsert always
		// inserts, so Overwrite has no effect here.
	}

	es.render(d.term.Renderer())
	return StatusContinue, nil
}

func (d *Dispatcher) acceptOrInsert(cmd Cmd) (Status, error) {
	es := d.es
	validator := es.helper.Validator
	es.changes.Begin()
	result, msg := validator.Validate(es.Buffer.String(), ValidationContext{es: es})
	es.changes.End()

	switch result {
	case Valid:
		return StatusAccepted, nil
	case Incomplete:
		es.Buffer.Insert('\n', 1)
	case Invalid:
		if cmd.AcceptInTheMiddle || es.Buffer.Pos() != es.Buffer.Len() {
			es.Buffer.Insert('\n', 1)
		}
	}
	if msg == "" {
		es.render(d.term.Renderer())
	} else {
		// Show the validator's message in the hint slot instead of the
		// Hinter's suggestion.
		es.hint = msg
		prompt := es.helper.Highlighter.HighlightPrompt(es.prompt)
		d.term.Renderer().RefreshLine(prompt, es.styledLine(), es.hint, es.Buffer.Pos())
	}
	return StatusContinue, nil
}

func (d *Dispatcher) acceptHint() {
	es := d.es
	if text, ok := es.helper.Hinter.Hint(es.Buffer.String(), es.Buffer.Pos(), es.helperContext()); ok {
		es.Buffer.InsertStr(es.Buffer.Pos(), text)
	}
}

func (d *Dispatcher) historyStep(delta int) {
	es := d.es
	if es.history == nil || es.history.IsEmpty() {
		d.term.Renderer().Beep()
		return
	}
	es.saveForHistoryBrowse()
	next := es.histIdx + delta
	if next < 0 || next > es.history.Len() {
		d.term.Renderer().Beep()
		return
	}
	if next == es.history.Len() {
		es.returnFromHistoryBrowse()
		return
	}
	es.loadHistory(next)
}

// applyMove resolves mvt against the buffer and repositions the cursor.
func (d *Dispatcher) applyMove(mvt Movement) {
	buf := d.es.Buffer
	n := mvt.Count
	if n <= 0 {
		n = 1
	}
	switch mvt.Kind {
	case MoveBeginningOfLine:
		buf.MoveHome()
	case MoveEndOfLine:
		buf.MoveEnd()
	case MoveBeginningOfBuffer:
		buf.MoveBufferStart()
	case MoveEndOfBuffer:
		buf.MoveBufferEnd()
	case MoveViFirstPrint:
		buf.MoveHome()
		for buf.Pos() < buf.Len() {
			r, _ := decodeRuneAt(buf.Bytes(), buf.Pos())
			if r != ' ' && r != '\t' {
				break
			}
			buf.MoveForward(1)
		}
	case MoveBackwardChar:
		// Count 0 is viMotion's "no motion" result for keys it doesn't know.
		if mvt.Count != 0 {
			buf.MoveBackward(n)
		}
	case MoveForwardChar:
		buf.MoveForward(n)
	case MoveBackwardWord:
		for i := 0; i < n; i++ {
			buf.pos = buf.PrevWordStart(buf.pos, mvt.WordDef)
		}
	case MoveForwardWord:
		for i := 0; i < n; i++ {
			buf.pos = nextWordPos(buf.buf, buf.pos, mvt.WordDef, mvt.At)
		}
	case MoveLineUp:
		buf.MoveLineUp(n)
	case MoveLineDown:
		buf.MoveLineDown(n)
	case MoveViCharSearch:
		if !buf.MoveTo(mvt.CharSearch, n, mvt.Char) {
			d.term.Renderer().Beep()
		}
	}
}

// movementRange resolves mvt to a [start,end) byte range without moving the
// cursor, used by Kill/Indent/Dedent.
func (d *Dispatcher) movementRange(mvt Movement) (int, int) {
	buf := d.es.Buffer
	pos := buf.Pos()
	n := mvt.Count
	if n <= 0 {
		n = 1
	}
	switch mvt.Kind {
	case MoveBeginningOfLine:
		return 0, pos
	case MoveEndOfLine:
		return pos, buf.Len()
	case MoveWholeLine, MoveWholeBuffer:
		return 0, buf.Len()
	case MoveBackwardChar:
		if mvt.Count == 0 {
			return pos, pos
		}
		p := pos
		for i := 0; i < n && p > 0; i++ {
			p = buf.prevGraphemeStart(p)
		}
		return p, pos
	case MoveForwardChar:
		p := pos
		for i := 0; i < n && p < buf.Len(); i++ {
			p = buf.nextGraphemeEnd(p)
		}
		return pos, p
	case MoveBackwardWord:
		p := pos
		for i := 0; i < n; i++ {
			p = buf.PrevWordStart(p, mvt.WordDef)
		}
		return p, pos
	case MoveForwardWord:
		p := pos
		for i := 0; i < n; i++ {
			p = nextWordPos(buf.buf, p, mvt.WordDef, mvt.At)
		}
		if mvt.At == AtBeforeEnd && p < buf.Len() {
			// e/E land on the word's final character; as a kill boundary
			// that character is included.
			p = buf.nextGraphemeEnd(p)
		}
		return pos, p
	case MoveViCharSearch:
		target, ok := buf.charSearchTarget(mvt.CharSearch, n, mvt.Char)
		if !ok {
			return pos, pos
		}
		switch mvt.CharSearch {
		case CharSearchFindForward:
			// Find lands on the char; as a kill boundary that char must be
			// included, so the exclusive end extends one grapheme further.
			return pos, buf.nextGraphemeEnd(target)
		case CharSearchTillForward:
			return pos, target
		default: // CharSearchFindBackward, CharSearchTillBackward
			return target, pos
		}
	}
	return pos, pos
}

// killRange resolves mvt, deletes the range, and returns the removed text
// plus whether it was deleted in the forward direction.
func (d *Dispatcher) killRange(mvt Movement) (string, bool) {
	start, end := d.movementRange(mvt)
	if start == end {
		return "", true
	}
	buf := d.es.Buffer
	forward := start == buf.Pos()
	dir := DirBackward
	if forward {
		dir = DirForward
	}
	text := buf.deleteRange(start, end, dir)
	return text, forward
}

// historySearch runs the incremental-search nested key loop: the prompt
// becomes "(reverse-i-search)`<term>': <match>" (or "(fwd-i-search)..."),
// Ctrl-R/Ctrl-S step to the previous/next match, Ctrl-G aborts back to the
// saved line, printable characters extend the search term and Backspace
// shortens it. Any other key exits the loop with the current match left in
// the buffer; that key is consumed by the loop and is not executed as a
// command (Enter, for example, does not submit the line).
func (d *Dispatcher) historySearch(initialDir SearchDirection) (Status, error) {
	es := d.es
	if es.history == nil {
		d.term.Renderer().Beep()
		return StatusContinue, nil
	}
	saved := es.Buffer.String()
	savedIdx := es.histIdx
	dir := initialDir
	term := ""
	start := es.histIdx
	matched := true

	redraw := func() {
		label := "reverse"
		if dir == SearchForward {
			label = "fwd"
		}
		mark := ":"
		if !matched {
			mark = "?"
		}
		prompt := "(" + label + "-i-search)`" + term + "'" + mark + " "
		d.term.Renderer().RefreshLine(prompt, es.Buffer.String(), "", es.Buffer.Pos())
	}

	search := func() {
		idx, ok := es.history.StartsWith(term, start, dir)
		if !ok {
			idx, _, ok = es.history.Search(term, start, dir)
		}
		matched = ok
		if ok {
			es.histIdx = idx
			es.Buffer.Update(es.history.Get(idx), len(es.history.Get(idx)))
		}
	}

	redraw()
	for {
		key, err := d.term.Reader().NextKey(true)
		if err != nil {
			return StatusEOF, err
		}
		switch {
		case key.Mods&ModCtrl != 0 && (key.Code == 'G'):
			es.histIdx = savedIdx
			es.Buffer.Update(saved, len(saved))
			es.render(d.term.Renderer())
			return StatusContinue, nil
		case key.Mods&ModCtrl != 0 && key.Code == 'R':
			dir = SearchReverse
			start = es.histIdx - 1
			search()
			redraw()
		case key.Mods&ModCtrl != 0 && key.Code == 'S':
			dir = SearchForward
			start = es.histIdx + 1
			search()
			redraw()
		case key.Code == keyBackspace:
			if len(term) > 0 {
				_, size := decodeLastRuneBefore([]byte(term), len(term))
				term = term[:len(term)-size]
				start = es.histIdx
				search()
			}
			redraw()
		case key.Mods == 0 && key.Code >= 0x20 && key.Code < 0x110000 && key.Code != keyEnter:
			term += string(key.Code)
			start = es.histIdx
			search()
			redraw()
		default:
			es.render(d.term.Renderer())
			return StatusContinue, nil
		}
	}
}
