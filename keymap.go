package edged

// CmdKind is the closed tagged set of editor actions a keymap can produce.
type CmdKind int

const (
	CmdNoop CmdKind = iota
	CmdSelfInsert
	CmdInsert
	CmdMove
	CmdKill
	CmdReplace
	CmdYank
	CmdYankPop
	CmdTransposeChars
	CmdTransposeWords
	CmdCapitalizeWord
	CmdUpcaseWord
	CmdDowncaseWord
	CmdComplete
	CmdCompleteBackward
	CmdCompleteHint
	CmdReverseSearchHistory
	CmdForwardSearchHistory
	CmdHistorySearchBackward
	CmdHistorySearchForward
	CmdNextHistory
	CmdPreviousHistory
	CmdBeginningOfHistory
	CmdEndOfHistory
	CmdLineUpOrPreviousHistory
	CmdLineDownOrNextHistory
	CmdAcceptLine
	CmdAcceptOrInsertLine
	CmdNewline
	CmdIndent
	CmdDedent
	CmdUndo
	CmdClearScreen
	CmdInterrupt
	CmdEndOfFile
	CmdOverwrite
	CmdReplaceChar
	CmdQuotedInsert
)

// MovementKind is the closed set of cursor-relative ranges a Move/Kill/
// Replace/Indent command operates over.
type MovementKind int

const (
	MoveBeginningOfLine MovementKind = iota
	MoveEndOfLine
	MoveBeginningOfBuffer
	MoveEndOfBuffer
	MoveViFirstPrint
	MoveBackwardChar
	MoveForwardChar
	MoveBackwardWord
	MoveForwardWord
	MoveLineUp
	MoveLineDown
	MoveViCharSearch
	MoveWholeLine
	MoveWholeBuffer
)

// Anchor selects which side of a yanked span the cursor ends up on.
type Anchor int

const (
	AnchorBefore Anchor = iota
	AnchorAfter
)

// CharSearch is the payload of a ViCharSearch movement: find, till, and
// their reversed counterparts, searching for Char.
type CharSearch int

const (
	CharSearchFindForward CharSearch = iota
	CharSearchFindBackward
	CharSearchTillForward
	CharSearchTillBackward
)

// Movement describes a range relative to the cursor.
type Movement struct {
	Kind       MovementKind
	Count      int
	WordDef    WordDef
	At         WordAt
	CharSearch CharSearch
	Char       rune
}

// Cmd is one normalized editor action, as produced by InputState.NextCmd and
// consumed by Dispatcher.Execute.
type Cmd struct {
	Kind              CmdKind
	Count             int
	Movement          Movement
	Text              string
	Char              rune
	Anchor            Anchor
	AcceptInTheMiddle bool
}

func simpleCmd(kind CmdKind) Cmd { return Cmd{Kind: kind, Count: 1} }

func moveCmd(kind CmdKind, mvt MovementKind, count int) Cmd {
	return Cmd{Kind: kind, Count: count, Movement: Movement{Kind: mvt, Count: count}}
}

// inputMode is the Vi sub-mode; Emacs only ever uses modeInsert.
type inputMode int

const (
	modeInsert inputMode = iota
	modeCommand
	modeReplace
)

// EventContext is passed to a conditional Bindings entry so it may decline
// to handle the event (returning false) and fall through to the built-in
// table.
type EventContext struct {
	EditMode  EditMode
	InputMode inputMode
	HasHint   bool
	Line      string
	Pos       int
}

// BindingFunc is a user override consulted before the built-in table; it
// returns ok=false to fall through.
type BindingFunc func(ctx EventContext) (Cmd, bool)

// InputState is the keymap state machine: it owns the current edit mode,
// Vi sub-mode, pending digit argument, last command (for Vi "."), last
// character search (for Vi ";"/","), the user bindings (a flat map keyed by
// one packed key), and whatever macro is being recorded.
type InputState struct {
	Mode           EditMode
	inputMode      inputMode
	digitSign      int
	digitMagnitude int
	haveDigit      bool
	lastCmd        Cmd
	haveLastCmd    bool
	lastCharSearch Movement
	haveCharSearch bool

	Bindings map[rune]BindingFunc

	// viPendingOp holds an operator (d/c/y) waiting for its motion;
	// viPendingCount is the digit argument typed before it (e.g. the 3 in
	// 3dw), multiplied into the motion's own count once it resolves.
	viPendingOp    rune
	viPendingCount int
	haveViPending  bool

	macroRecording bool
	macroBuf       []KeyEvent
}

// NewInputState returns a state machine in the given edit mode, insert
// sub-mode.
func NewInputState(mode EditMode) *InputState {
	return &InputState{Mode: mode, Bindings: map[rune]BindingFunc{}}
}

// Bind registers a user override for a packed key (rune | modifiers). It
// takes priority over the built-in table.
func (is *InputState) Bind(key rune, fn BindingFunc) {
	is.Bindings[key] = fn
}

// beginMacro / endMacro bracket raw keystroke recording into macroBuf.
// Nothing in this package calls them: Vi "." repeats lastCmd, the last
// non-no-op Cmd returned by NextCmd, and replays neither a recording nor
// Changeset.LastInsert.
func (is *InputState) beginMacro() { is.macroRecording = true; is.macroBuf = nil }
func (is *InputState) endMacro()   { is.macroRecording = false }

// NextCmd consumes one or more key events from r and returns the resulting
// Cmd. It always reads with singleEscAbort=true, so a bare, unfollowed Esc
// arrives as an Esc key (the RawReader decides when an Esc is unfollowed;
// NextCmd only interprets the result).
func (is *InputState) NextCmd(r RawReader, ctx EventContext) (Cmd, error) {
	key, err := r.NextKey(true)
	if err != nil {
		return Cmd{}, err
	}
	if is.macroRecording {
		is.macroBuf = append(is.macroBuf, key)
	}

	if key.Code == keyPasteStart {
		text, err := r.ReadPastedText()
		if err != nil {
			return Cmd{}, err
		}
		cmd := Cmd{Kind: CmdInsert, Count: 1, Text: text}
		is.haveLastCmd, is.lastCmd = true, cmd
		return cmd, nil
	}

	packed := key.Code
	if key.Mods&ModCtrl != 0 {
		packed |= keyCtrl
	}
	if key.Mods&ModAlt != 0 {
		packed |= keyAlt
	}
	if key.Mods&ModShift != 0 {
		packed |= keyShift
	}

	if fn, ok := is.Bindings[packed]; ok {
		if cmd, handled := fn(ctx); handled {
			is.haveLastCmd, is.lastCmd = true, cmd
			return cmd, nil
		}
	}

	var cmd Cmd
	if is.Mode == Vi && is.inputMode != modeInsert {
		cmd = is.nextViCommand(r, key)
	} else {
		cmd = is.nextEmacsLike(r, key)
	}
	if cmd.Kind != CmdNoop {
		is.haveLastCmd, is.lastCmd = true, cmd
	}
	return cmd, nil
}

// nextEmacsLike implements the Emacs flow, also used for Vi insert mode:
// there it is the same table, Meta bindings and Meta-digit arguments
// included, plus Esc leaving insert mode.
func (is *InputState) nextEmacsLike(r RawReader, key KeyEvent) Cmd {
	if is.Mode == Vi && key.Code == keyEscape {
		is.inputMode = modeCommand
		return Cmd{Kind: CmdMove, Count: 1, Movement: Movement{Kind: MoveBackwardChar, Count: 1}}
	}

	if arg, isDigit := is.tryDigitArgument(key); isDigit {
		_ = arg
		return Cmd{Kind: CmdNoop}
	}
	n := is.takeDigitArgument()

	switch {
	case key.Mods&ModCtrl != 0:
		return emacsCtrlCmd(key.Code, n)
	case key.Mods&ModAlt != 0:
		return emacsMetaCmd(key.Code, n)
	}

	switch key.Code {
	case keyEnter:
		return Cmd{Kind: CmdAcceptOrInsertLine, Count: 1}
	case keyTab:
		return simpleCmd(CmdComplete)
	case keyBackTab:
		return simpleCmd(CmdCompleteBackward)
	case keyBackspace:
		return moveCmd(CmdKill, MoveBackwardChar, n)
	case keyDelete:
		return moveCmd(CmdKill, MoveForwardChar, n)
	case keyLeft:
		return moveCmd(CmdMove, MoveBackwardChar, n)
	case keyRight:
		return moveCmd(CmdMove, MoveForwardChar, n)
	case keyUp:
		return Cmd{Kind: CmdLineUpOrPreviousHistory, Count: n, Movement: Movement{Kind: MoveLineUp, Count: n}}
	case keyDown:
		return Cmd{Kind: CmdLineDownOrNextHistory, Count: n, Movement: Movement{Kind: MoveLineDown, Count: n}}
	case keyHome:
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveBeginningOfLine})
	case keyEnd:
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveEndOfLine})
	case keyEscape:
		return Cmd{Kind: CmdNoop}
	}

	if key.Code >= 0 && key.Code < 0x110000 {
		return Cmd{Kind: CmdSelfInsert, Count: n, Char: key.Code}
	}
	return Cmd{Kind: CmdNoop}
}

func (c Cmd) withMovement(m Movement) Cmd { c.Movement = m; return c }

func emacsCtrlCmd(code rune, n int) Cmd {
	switch code {
	case 'A':
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveBeginningOfLine})
	case 'B':
		return moveCmd(CmdMove, MoveBackwardChar, n)
	case 'C':
		return simpleCmd(CmdInterrupt)
	case 'D':
		return simpleCmd(CmdEndOfFile)
	case 'E':
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveEndOfLine})
	case 'F':
		return moveCmd(CmdMove, MoveForwardChar, n)
	case 'K':
		return simpleCmd(CmdKill).withMovement(Movement{Kind: MoveEndOfLine})
	case 'L':
		return simpleCmd(CmdClearScreen)
	case 'N':
		return simpleCmd(CmdNextHistory)
	case 'P':
		return simpleCmd(CmdPreviousHistory)
	case 'R':
		return simpleCmd(CmdReverseSearchHistory)
	case 'S':
		return simpleCmd(CmdForwardSearchHistory)
	case 'T':
		return simpleCmd(CmdTransposeChars)
	case 'U':
		return simpleCmd(CmdKill).withMovement(Movement{Kind: MoveBeginningOfLine})
	case 'V', 'Q':
		return simpleCmd(CmdQuotedInsert)
	case 'W':
		return simpleCmd(CmdKill).withMovement(Movement{Kind: MoveBackwardWord, WordDef: WordBig})
	case 'Y':
		return Cmd{Kind: CmdYank, Count: 1, Anchor: AnchorAfter}
	case keyCtrlUnderscore:
		return Cmd{Kind: CmdUndo, Count: n}
	}
	return Cmd{Kind: CmdNoop}
}

func emacsMetaCmd(code rune, n int) Cmd {
	if code >= 'a' && code <= 'z' {
		// Meta+letter keeps the letter's own case (normalizeKey folds only
		// Ctrl+letter); the table below is keyed on uppercase.
		code -= 0x20
	}
	switch code {
	case 'B':
		return Cmd{Kind: CmdMove, Count: n, Movement: Movement{Kind: MoveBackwardWord, Count: n, WordDef: WordEmacs}}
	case 'F':
		return Cmd{Kind: CmdMove, Count: n, Movement: Movement{Kind: MoveForwardWord, Count: n, WordDef: WordEmacs, At: AtAfterEnd}}
	case 'C':
		return simpleCmd(CmdCapitalizeWord)
	case 'L':
		return simpleCmd(CmdDowncaseWord)
	case 'U':
		return simpleCmd(CmdUpcaseWord)
	case 'Y':
		return simpleCmd(CmdYankPop)
	case 'T':
		return simpleCmd(CmdTransposeWords)
	case 'D':
		return Cmd{Kind: CmdKill, Count: n, Movement: Movement{Kind: MoveForwardWord, Count: n, WordDef: WordEmacs, At: AtAfterEnd}}
	case '<':
		return simpleCmd(CmdBeginningOfHistory)
	case '>':
		return simpleCmd(CmdEndOfHistory)
	case keyBackspace:
		return Cmd{Kind: CmdKill, Count: n, Movement: Movement{Kind: MoveBackwardWord, Count: n, WordDef: WordEmacs}}
	}
	return Cmd{Kind: CmdNoop}
}

// tryDigitArgument accumulates Meta-<digit>/Meta-- into a pending numeric
// argument; it reports isDigit=true while still consuming argument keys.
func (is *InputState) tryDigitArgument(key KeyEvent) (int, bool) {
	if key.Mods&ModAlt == 0 {
		return 0, false
	}
	if key.Code == '-' {
		is.haveDigit = true
		is.digitSign = -1
		return 0, true
	}
	if key.Code >= '0' && key.Code <= '9' {
		is.haveDigit = true
		if is.digitSign == 0 {
			is.digitSign = 1
		}
		is.digitMagnitude = is.digitMagnitude*10 + int(key.Code-'0')
		return is.digitMagnitude, true
	}
	return 0, false
}

// takeDigitArgument returns the accumulated argument (default 1) and clears
// it for the next command.
func (is *InputState) takeDigitArgument() int {
	if !is.haveDigit {
		return 1
	}
	n := is.digitMagnitude
	if n == 0 {
		n = 1
	}
	if is.digitSign < 0 {
		n = -n
	}
	is.haveDigit, is.digitSign, is.digitMagnitude = false, 0, 0
	if n == 0 {
		n = 1
	}
	return n
}

// nextViCommand implements the Vi command-mode two-state sub-machine: a
// pending operator (d/c/y) waits for a motion; otherwise a key resolves
// directly as a motion or an edit.
func (is *InputState) nextViCommand(r RawReader, key KeyEvent) Cmd {
	if key.Code >= '1' && key.Code <= '9' || (key.Code == '0' && is.haveDigit) {
		// Extra digits beyond the first fold into the argument; NextCmd's
		// caller loop re-enters on CmdNoop. Checked before taking the
		// pending argument so a second/third digit extends it instead of
		// being read against an already-cleared one.
		is.haveDigit = true
		if is.digitSign == 0 {
			is.digitSign = 1
		}
		is.digitMagnitude = is.digitMagnitude*10 + int(key.Code-'0')
		return Cmd{Kind: CmdNoop}
	}
	n := is.takeDigitArgument()

	if is.haveViPending {
		op := is.viPendingOp
		opCount := is.viPendingCount
		is.haveViPending = false
		is.viPendingCount = 0
		var mvt Movement
		if key.Code == op {
			// Doubled operator (dd/cc/yy): operate on the whole line.
			mvt = Movement{Kind: MoveWholeLine}
		} else {
			mvt = is.viMotion(r, key, n)
		}
		total := opCount * n
		switch op {
		case 'd':
			return Cmd{Kind: CmdKill, Count: total, Movement: mvt}
		case 'c':
			is.inputMode = modeInsert
			return Cmd{Kind: CmdReplace, Count: total, Movement: mvt}
		case 'y':
			return Cmd{Kind: CmdKill, Count: total, Movement: mvt, Anchor: AnchorBefore}
		}
		return Cmd{Kind: CmdNoop}
	}

	switch key.Code {
	case 'd', 'c', 'y':
		is.haveViPending = true
		is.viPendingOp = key.Code
		is.viPendingCount = n
		return Cmd{Kind: CmdNoop}
	case 'i':
		is.inputMode = modeInsert
		return Cmd{Kind: CmdNoop}
	case 'I':
		is.inputMode = modeInsert
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveBeginningOfLine})
	case 'a':
		is.inputMode = modeInsert
		return moveCmd(CmdMove, MoveForwardChar, 1)
	case 'A':
		is.inputMode = modeInsert
		return simpleCmd(CmdMove).withMovement(Movement{Kind: MoveEndOfLine})
	case 'o':
		is.inputMode = modeInsert
		return Cmd{Kind: CmdNewline, Count: 1}
	case 'x':
		return moveCmd(CmdKill, MoveForwardChar, n)
	case 'X':
		return moveCmd(CmdKill, MoveBackwardChar, n)
	case 'D':
		return simpleCmd(CmdKill).withMovement(Movement{Kind: MoveEndOfLine})
	case 'C':
		is.inputMode = modeInsert
		return simpleCmd(CmdReplace).withMovement(Movement{Kind: MoveEndOfLine})
	case 'S':
		is.inputMode = modeInsert
		return simpleCmd(CmdReplace).withMovement(Movement{Kind: MoveWholeLine})
	case 'p':
		return Cmd{Kind: CmdYank, Count: n, Anchor: AnchorAfter}
	case 'P':
		return Cmd{Kind: CmdYank, Count: n, Anchor: AnchorBefore}
	case 'u':
		return Cmd{Kind: CmdUndo, Count: n}
	case '~':
		return simpleCmd(CmdReplaceChar)
	case '.':
		if is.haveLastCmd {
			return is.lastCmd
		}
		return Cmd{Kind: CmdNoop}
	case keyEnter:
		return Cmd{Kind: CmdAcceptOrInsertLine, Count: 1}
	}

	mvt := is.viMotion(r, key, n)
	return Cmd{Kind: CmdMove, Count: n, Movement: mvt}
}

// viMotion resolves a single Vi motion key into a Movement. Doubled
// operators (dd/cc/yy) never reach it; nextViCommand resolves them to
// MoveWholeLine itself. Keys it does not know yield MoveBackwardChar with
// Count 0, which the dispatcher treats as no motion.
// f/F/t/T read one further raw char from r for the search target; ;/,
// replay the last character search in the same/reversed direction.
func (is *InputState) viMotion(r RawReader, key KeyEvent, n int) Movement {
	switch key.Code {
	case 'f', 'F', 't', 'T':
		ch, err := r.NextChar()
		if err != nil {
			return Movement{Kind: MoveBackwardChar, Count: 0}
		}
		var cs CharSearch
		switch key.Code {
		case 'f':
			cs = CharSearchFindForward
		case 'F':
			cs = CharSearchFindBackward
		case 't':
			cs = CharSearchTillForward
		case 'T':
			cs = CharSearchTillBackward
		}
		mvt := Movement{Kind: MoveViCharSearch, Count: n, CharSearch: cs, Char: ch}
		is.lastCharSearch, is.haveCharSearch = mvt, true
		return mvt
	case ';':
		if !is.haveCharSearch {
			return Movement{Kind: MoveBackwardChar, Count: 0}
		}
		mvt := is.lastCharSearch
		mvt.Count = n
		return mvt
	case ',':
		if !is.haveCharSearch {
			return Movement{Kind: MoveBackwardChar, Count: 0}
		}
		mvt := is.lastCharSearch
		mvt.Count = n
		mvt.CharSearch = reverseCharSearch(mvt.CharSearch)
		return mvt
	case 'h', keyLeft:
		return Movement{Kind: MoveBackwardChar, Count: n}
	case 'l', ' ', keyRight:
		return Movement{Kind: MoveForwardChar, Count: n}
	case 'j', keyDown:
		return Movement{Kind: MoveLineDown, Count: n}
	case 'k', keyUp:
		return Movement{Kind: MoveLineUp, Count: n}
	case 'w':
		return Movement{Kind: MoveForwardWord, Count: n, WordDef: WordVi, At: AtStart}
	case 'W':
		return Movement{Kind: MoveForwardWord, Count: n, WordDef: WordBig, At: AtStart}
	case 'e':
		return Movement{Kind: MoveForwardWord, Count: n, WordDef: WordVi, At: AtBeforeEnd}
	case 'E':
		return Movement{Kind: MoveForwardWord, Count: n, WordDef: WordBig, At: AtBeforeEnd}
	case 'b':
		return Movement{Kind: MoveBackwardWord, Count: n, WordDef: WordVi}
	case 'B':
		return Movement{Kind: MoveBackwardWord, Count: n, WordDef: WordBig}
	case '0':
		return Movement{Kind: MoveBeginningOfLine}
	case '^':
		return Movement{Kind: MoveViFirstPrint}
	case '$':
		return Movement{Kind: MoveEndOfLine}
	case 'G':
		return Movement{Kind: MoveEndOfBuffer}
	}
	return Movement{Kind: MoveBackwardChar, Count: 0}
}

// reverseCharSearch flips a character search's direction, used by ',' to
// replay the last f/F/t/T search reversed.
func reverseCharSearch(cs CharSearch) CharSearch {
	switch cs {
	case CharSearchFindForward:
		return CharSearchFindBackward
	case CharSearchFindBackward:
		return CharSearchFindForward
	case CharSearchTillForward:
		return CharSearchTillBackward
	case CharSearchTillBackward:
		return CharSearchTillForward
	}
	return cs
}
