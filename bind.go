package edged

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseBindingsDSL parses a "bind <key> <command>" script, one binding per
// line, and registers each as a user override on is. This is the
// user-extensible Bindings table the keymap design calls for: entries here
// take priority over the built-in Emacs/Vi tables.
//
// Key syntax: an optional "Control-"/"Meta-" prefix (repeatable in either
// order), then either a named key (see namedKeys) or a single rune.
// Command syntax: one of the names in commandTable below.
func ParseBindingsDSL(is *InputState, data string) error {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, cmd, err := parseBinding(line)
		if err != nil {
			return err
		}
		is.Bind(key, fixedCmd(cmd))
	}
	return nil
}

func fixedCmd(cmd Cmd) BindingFunc {
	return func(EventContext) (Cmd, bool) { return cmd, true }
}

var namedKeys = map[string]rune{
	"backspace": keyBackspace,
	"delete":    keyDelete,
	"down":      keyDown,
	"end":       keyEnd,
	"enter":     keyEnter,
	"home":      keyHome,
	"left":      keyLeft,
	"page-down": keyPageDown,
	"page-up":   keyPageUp,
	"right":     keyRight,
	"space":     ' ',
	"tab":       keyTab,
	"up":        keyUp,
}

// commandTable maps a DSL command name to the Cmd it produces. Movement
// commands here use a fixed count of 1; a bound key that needs a runtime
// repeat count is better expressed by calling InputState.Bind directly with
// a closure than through this DSL.
var commandTable = map[string]Cmd{
	"backward-char":          {Kind: CmdMove, Count: 1, Movement: Movement{Kind: MoveBackwardChar, Count: 1}},
	"forward-char":           {Kind: CmdMove, Count: 1, Movement: Movement{Kind: MoveForwardChar, Count: 1}},
	"backward-word":          {Kind: CmdMove, Count: 1, Movement: Movement{Kind: MoveBackwardWord, Count: 1, WordDef: WordEmacs}},
	"forward-word":           {Kind: CmdMove, Count: 1, Movement: Movement{Kind: MoveForwardWord, Count: 1, WordDef: WordEmacs, At: AtAfterEnd}},
	"beginning-of-line":      {Kind: CmdMove, Movement: Movement{Kind: MoveBeginningOfLine}},
	"end-of-line":            {Kind: CmdMove, Movement: Movement{Kind: MoveEndOfLine}},
	"backward-delete-char":   {Kind: CmdKill, Count: 1, Movement: Movement{Kind: MoveBackwardChar, Count: 1}},
	"delete-char":            {Kind: CmdKill, Count: 1, Movement: Movement{Kind: MoveForwardChar, Count: 1}},
	"backward-kill-line":     {Kind: CmdKill, Movement: Movement{Kind: MoveBeginningOfLine}},
	"kill-line":              {Kind: CmdKill, Movement: Movement{Kind: MoveEndOfLine}},
	"backward-kill-word":     {Kind: CmdKill, Count: 1, Movement: Movement{Kind: MoveBackwardWord, Count: 1, WordDef: WordBig}},
	"kill-word":              {Kind: CmdKill, Count: 1, Movement: Movement{Kind: MoveForwardWord, Count: 1, WordDef: WordEmacs, At: AtAfterEnd}},
	"transpose-chars":        simpleCmd(CmdTransposeChars),
	"transpose-words":        simpleCmd(CmdTransposeWords),
	"yank":                   {Kind: CmdYank, Count: 1, Anchor: AnchorAfter},
	"yank-pop":               simpleCmd(CmdYankPop),
	"undo":                   {Kind: CmdUndo, Count: 1},
	"clear-screen":           simpleCmd(CmdClearScreen),
	"next-history":           simpleCmd(CmdNextHistory),
	"previous-history":       simpleCmd(CmdPreviousHistory),
	"reverse-search-history": simpleCmd(CmdReverseSearchHistory),
	"forward-search-history": simpleCmd(CmdForwardSearchHistory),
	"complete":               simpleCmd(CmdComplete),
	"complete-backward":      simpleCmd(CmdCompleteBackward),
	"accept-line":            simpleCmd(CmdAcceptLine),
	"newline":                simpleCmd(CmdNewline),
	"quoted-insert":          simpleCmd(CmdQuotedInsert),
	"interrupt":              simpleCmd(CmdInterrupt),
	"end-of-file":            simpleCmd(CmdEndOfFile),
}

var commandAliases = map[string]string{
	"unix-line-discard": "backward-kill-line",
}

func parseBinding(binding string) (key rune, cmd Cmd, err error) {
	const (
		controlPrefix = "Control-"
		metaPrefix    = "Meta-"
	)

	parts := strings.Fields(binding)
	if len(parts) != 3 || parts[0] != "bind" {
		return utf8.RuneError, Cmd{}, fmt.Errorf("invalid binding: [%s]", binding)
	}

	name := parts[2]
	if alias, ok := commandAliases[name]; ok {
		name = alias
	}
	cmd, ok := commandTable[name]
	if !ok {
		return utf8.RuneError, Cmd{}, fmt.Errorf("unknown command: %s", name)
	}

	origKey := parts[1]
	var mods rune
	for s := parts[1]; len(s) > 0; {
		if strings.HasPrefix(s, controlPrefix) {
			if mods&keyCtrl != 0 {
				return utf8.RuneError, Cmd{}, fmt.Errorf("invalid key: %q", origKey)
			}
			mods |= keyCtrl
			s = s[len(controlPrefix):]
			continue
		}
		if strings.HasPrefix(s, metaPrefix) {
			if mods&keyAlt != 0 {
				return utf8.RuneError, Cmd{}, fmt.Errorf("invalid key: %q", origKey)
			}
			mods |= keyAlt
			s = s[len(metaPrefix):]
			continue
		}
		if k, ok := namedKeys[strings.ToLower(s)]; ok {
			key = k
		} else {
			var l int
			key, l = utf8.DecodeRuneInString(s)
			if l != len(s) {
				return utf8.RuneError, Cmd{}, fmt.Errorf("invalid key: %q", origKey)
			}
		}
		break
	}

	if mods&keyCtrl != 0 && key >= 'a' && key <= 'z' {
		key = unicode.ToUpper(key)
	}

	return key | mods, cmd, nil
}
