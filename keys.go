package edged

import "unicode/utf8"

// Key codes for control characters and named keys. Control characters use
// their ASCII value directly (Ctrl-A == 1, ... Ctrl-Z == 26). Named keys that
// have no natural ASCII encoding are placed in the UTF-16 surrogate area,
// which can never appear in valid UTF-8 text and is therefore safe to overlay
// on a rune-typed key code.
const (
	keyCtrlA     = 1
	keyCtrlB     = 2
	keyCtrlC     = 3
	keyCtrlD     = 4
	keyCtrlE     = 5
	keyCtrlF     = 6
	keyCtrlG     = 7
	keyCtrlH     = 8
	keyCtrlI     = 9
	keyCtrlK     = 11
	keyCtrlL     = 12
	keyCtrlN     = 14
	keyCtrlP     = 16
	keyCtrlQ     = 17
	keyCtrlR     = 18
	keyCtrlS     = 19
	keyCtrlT     = 20
	keyCtrlU     = 21
	keyCtrlV     = 22
	keyCtrlW     = 23
	keyCtrlY     = 25
	keyCtrlUnderscore = 31
	keyEnter     = '\r'
	keyEscape    = 27
	keyTab       = '\t'
	keyBackspace = 127
	keyUnknown   = 0xd800 /* UTF-16 surrogate area */ + iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyPageUp
	keyPageDown
	keyDelete
	keyInsert
	keyBackTab
	keyPasteStart
	keyPasteEnd
	keyF1
	keyF2
	keyF3
	keyF4
	keyF5
	keyF6
	keyF7
	keyF8
	keyF9
	keyF10
	keyF11
	keyF12
	keyCtrl  = 0x20000000
	keyAlt   = 0x40000000
	keyShift = 0x10000000
)

// Modifiers is the normalized bitset over {Ctrl, Alt, Shift} described by the
// key-event data model.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyEvent is the normalized (code, modifiers) pair that the keymap state
// machines consume. Code holds either a decoded Unicode scalar or one of the
// named key constants above, always with the modifier bits stripped.
type KeyEvent struct {
	Code rune
	Mods Modifiers
}

// normalizeKey splits a packed key rune (as produced by parseKey) into a
// KeyEvent, applying the normalization invariant: Ctrl+lowercase-letter folds
// to the uppercase form with ModCtrl set, Shift+Tab is represented as
// keyBackTab with no modifier, and the raw control codes 1..26 other than
// Tab and Enter become the same Ctrl+uppercase-letter form (0x01 -> Ctrl-A).
func normalizeKey(r rune) KeyEvent {
	var mods Modifiers
	if r&keyAlt != 0 {
		mods |= ModAlt
	}
	if r&keyCtrl != 0 {
		mods |= ModCtrl
	}
	if r&keyShift != 0 {
		mods |= ModShift
	}
	code := r &^ (keyAlt | keyCtrl | keyShift)

	if code >= 1 && code <= 26 && code != '\t' && code != '\r' {
		// A raw Ctrl-letter code (Ctrl-A..Ctrl-Z): map it to the letter and
		// surface the modifier explicitly so callers need not special-case
		// the range.
		code += 0x40
		mods |= ModCtrl
	}
	if code == keyTab && mods&ModShift != 0 {
		code = keyBackTab
		mods &^= ModShift
	}
	if code >= 'a' && code <= 'z' && mods&ModCtrl != 0 {
		code -= 0x20
	}
	return KeyEvent{Code: code, Mods: mods}
}

// Normalize is idempotent: normalizing an already-normalized event is a
// no-op. This is exercised directly by tests rather than only implied by
// normalizeKey's construction.
func (k KeyEvent) normalize() KeyEvent {
	packed := k.Code
	if k.Mods&ModCtrl != 0 {
		packed |= keyCtrl
	}
	if k.Mods&ModAlt != 0 {
		packed |= keyAlt
	}
	if k.Mods&ModShift != 0 {
		packed |= keyShift
	}
	return normalizeKey(packed)
}

// A map of the supported control sequences to the Go code that will be
// emitted when the control sequence is matched.
//
// Note that we can't specify control sequences to cover the desired key input
// for all terminals because the same control sequence is sometimes used by
// different terminals to represent different keys. The control sequences
// below support the large majority of terminals listed in a typical terminfo
// database, including all modern terminals.
var supportedSeqs = map[string]rune{
	"\x1b[3~":    keyDelete,
	"\x1b[2~":    keyInsert,
	"\x1bOB":     keyDown,
	"\x1b[B":     keyDown,
	"\x1bOb":     keyDown | keyCtrl,
	"\x1b[1;5B":  keyDown | keyCtrl,
	"\x1b[1;3B":  keyDown | keyAlt,
	"\x1b[1;9B":  keyDown | keyAlt,
	"\x1bOF":     keyEnd,
	"\x1b[F":     keyEnd,
	"\x1b[4~":    keyEnd,
	"\x1b[8~":    keyEnd,
	"\x1bOH":     keyHome,
	"\x1b[H":     keyHome,
	"\x1b[1~":    keyHome,
	"\x1b[7~":    keyHome,
	"\x1bOD":     keyLeft,
	"\x1b[D":     keyLeft,
	"\x1bOd":     keyLeft | keyCtrl,
	"\x1b[1;5D":  keyLeft | keyCtrl,
	"\x1b[1;3D":  keyLeft | keyAlt,
	"\x1b[1;9D":  keyLeft | keyAlt,
	"\x1b[6~":    keyPageDown,
	"\x1b[5~":    keyPageUp,
	"\x1b[200~":  keyPasteStart,
	"\x1b[201~":  keyPasteEnd,
	"\x1bOC":     keyRight,
	"\x1b[C":     keyRight,
	"\x1bOc":     keyRight | keyCtrl,
	"\x1b[1;5C":  keyRight | keyCtrl,
	"\x1b[1;3C":  keyRight | keyAlt,
	"\x1b[1;9C":  keyRight | keyAlt,
	"\x1bOA":     keyUp,
	"\x1b[A":     keyUp,
	"\x1bOa":     keyUp | keyCtrl,
	"\x1b[1;5A":  keyUp | keyCtrl,
	"\x1b[1;3A":  keyUp | keyAlt,
	"\x1b[1;9A":  keyUp | keyAlt,
	"\x1b[Z":     keyBackTab,
	"\x1bOP":     keyF1,
	"\x1bOQ":     keyF2,
	"\x1bOR":     keyF3,
	"\x1bOS":     keyF4,
	"\x1b[15~":   keyF5,
	"\x1b[17~":   keyF6,
	"\x1b[18~":   keyF7,
	"\x1b[19~":   keyF8,
	"\x1b[20~":   keyF9,
	"\x1b[21~":   keyF10,
	"\x1b[23~":   keyF11,
	"\x1b[24~":   keyF12,
}

type seqTrie struct {
	children []seqTrie
	key      byte
	value    rune
}

func (t *seqTrie) findChild(b byte) *seqTrie {
	for i := range t.children {
		child := &t.children[i]
		if child.key == b {
			return child
		}
	}
	return nil
}

func (t *seqTrie) add(seq []byte, value rune) {
	node := t
	for _, b := range seq {
		child := node.findChild(b)
		if child == nil {
			node.children = append(node.children, seqTrie{key: b})
			child = &node.children[len(node.children)-1]
		}
		node = child
	}
	node.value = value
}

// match walks the trie for the escape sequence at the start of buf and
// returns its key with mods added. A ";<mod>" parameter is recognized only
// where the trie has an explicit entry for it (e.g. "\x1b[1;5A"); general
// ";<mod>" decoding is done by parseCSITilde, for "<num>;<mod>~" only.
func (t *seqTrie) match(buf, origBuf []byte, mods rune) (rune, []byte) {
	node := t
	for i, b := range buf {
		node = node.findChild(b)
		if node == nil {
			// If we get here then we have a sequence that we don't recognise, or a
			// partial sequence. It's not clear how one should find the end of a
			// sequence without knowing them all, but it seems that [a-zA-Z~] only
			// appears at the end of a sequence.
			for j := i; j < len(buf); j++ {
				b := buf[j]
				if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '~' {
					return keyUnknown, buf[i+1:]
				}
			}
			return utf8.RuneError, origBuf
		}
		if len(node.children) == 0 {
			if node.value == keyPasteStart || node.value == keyPasteEnd {
				mods = 0
			}
			return node.value | mods, buf[i+1:]
		}
	}
	return utf8.RuneError, origBuf
}

var seqMatcher = func() *seqTrie {
	t := &seqTrie{}
	for seq, value := range supportedSeqs {
		t.add([]byte(seq), value)
	}
	return t
}()

// csiModifier decodes a CSI modifier-parameter digit (the <mod> of
// parseCSITilde's "<num>;<mod>~" form) into key-rune bits.
func csiModifier(d byte) rune {
	switch d {
	case '2':
		return keyShift
	case '3':
		return keyAlt
	case '4':
		return keyShift | keyAlt
	case '5':
		return keyCtrl
	case '6':
		return keyShift | keyCtrl
	case '7':
		return keyAlt | keyCtrl
	case '8':
		return keyShift | keyAlt | keyCtrl
	default:
		return 0
	}
}

// parseCSITilde handles "ESC [ <digits> ~" sequences (optionally followed by
// ";<mod>") that supportedSeqs/seqMatcher does not already special-case,
// mapping the numeric parameter to the named key per the escape-sequence
// decoding rules: 1|7 -> Home, 2 -> Insert, 3 -> Delete, 4|8 -> End, 5 ->
// PageUp, 6 -> PageDown, 15|17..24 -> F(n).
func parseCSITilde(buf []byte) (rune, []byte, bool) {
	if len(buf) < 3 || buf[0] != keyEscape || buf[1] != '[' {
		return 0, buf, false
	}
	i := 2
	start := i
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i == start {
		return 0, buf, false
	}
	num := 0
	for _, d := range buf[start:i] {
		num = num*10 + int(d-'0')
	}
	var mods rune
	if i < len(buf) && buf[i] == ';' {
		j := i + 1
		mstart := j
		for j < len(buf) && buf[j] >= '0' && buf[j] <= '9' {
			j++
		}
		if j > mstart {
			for _, d := range buf[mstart:j] {
				mods |= csiModifier(d)
			}
			i = j
		}
	}
	if i >= len(buf) || buf[i] != '~' {
		return 0, buf, false
	}
	i++

	var code rune
	switch num {
	case 1, 7:
		code = keyHome
	case 2:
		code = keyInsert
	case 3:
		code = keyDelete
	case 4, 8:
		code = keyEnd
	case 5:
		code = keyPageUp
	case 6:
		code = keyPageDown
	case 15:
		code = keyF5
	case 17:
		code = keyF6
	case 18:
		code = keyF7
	case 19:
		code = keyF8
	case 20:
		code = keyF9
	case 21:
		code = keyF10
	case 23:
		code = keyF11
	case 24:
		code = keyF12
	default:
		return 0, buf, false
	}
	return code | mods, buf[i:], true
}

// parseKey parses a single key from the prefix of the specified byte slice.
// Parsing keys is challenging because the input sequences used by terminals
// differ. Rather than the termcap/terminfo approach of determining the input
// sequences based on the $TERM env var, this code takes the approach of
// handling the most common sequences used by the large majority of terminals
// and all modern terminals. This is also the approach used by linenoise, and
// libraries inspired by linenoise.
//
// If the input sequence is not recognized, keyUnknown is returned. If a
// prefix of a recognized input sequence is matched but there are insufficient
// bytes in the input, utf8.RuneError is returned. On success, the remaining
// bytes in the input are returned.
func parseKey(buf []byte) (rune, []byte) {
	origBuf := buf
	var mods rune

	for len(buf) >= 2 {
		// An escape that is not the beginning of "\x1bO..." or "\x1b[..." sets the
		// keyAlt modifier.
		if buf[0] != keyEscape || buf[1] == 'O' || buf[1] == '[' {
			break
		}
		mods |= keyAlt
		buf = buf[1:]
	}

	if len(buf) <= 0 {
		return utf8.RuneError, origBuf
	}

	if buf[0] != keyEscape {
		if !utf8.FullRune(buf) {
			return utf8.RuneError, origBuf
		}
		r, l := utf8.DecodeRune(buf)
		return r | mods, buf[l:]
	}

	if key, rest, ok := parseCSITilde(buf); ok {
		return key | mods, rest
	}

	if len(buf) == 1 {
		// Bare ESC; the caller applies the keyseq timeout policy to decide whether
		// to deliver this now or wait for more bytes.
		return utf8.RuneError, origBuf
	}

	if len(buf) == 2 && buf[1] != '[' && buf[1] != 'O' {
		b := buf[1]
		switch {
		case b == keyBackspace:
			return keyBackspace | keyAlt | mods, buf[2:]
		case b >= 'a' && b <= 'z':
			return rune(b-0x20) | keyAlt | mods, buf[2:]
		case b >= 'A' && b <= 'Z':
			return rune(b) | keyAlt | mods, buf[2:]
		}
	}

	return seqMatcher.match(buf, origBuf, mods)
}
