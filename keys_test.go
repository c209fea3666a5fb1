package edged

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	var sequences = map[string]rune{
		"\x7f":      keyBackspace,
		"a":         rune('a'),
		"b":         rune('b'),
		"«":         rune('«'),
		"»":         rune('»'),
		"\x1bb":     rune('b') | keyAlt,
		"\x1bf":     rune('f') | keyAlt,
		"\x1b«":     rune('«') | keyAlt,
		"\x1b»":     rune('»') | keyAlt,
		"\x01":      keyCtrlA,
		"\x02":      keyCtrlB,
		"\x05":      keyCtrlE,
		"\x06":      keyCtrlF,
		"\x08":      keyCtrlH,
		"\x0b":      keyCtrlK,
		"\x0c":      keyCtrlL,
		"\x10":      keyCtrlP,
		"\x17":      keyCtrlW,
		"\x1bOA":    keyUp,
		"\x1bOB":    keyDown,
		"\x1bOC":    keyRight,
		"\x1bOD":    keyLeft,
		"\x1bOH":    keyHome,
		"\x1bOF":    keyEnd,
		"\x1bOa":    keyUp | keyCtrl,
		"\x1bOb":    keyDown | keyCtrl,
		"\x1bOc":    keyRight | keyCtrl,
		"\x1bOd":    keyLeft | keyCtrl,
		"\x1b[A":    keyUp,
		"\x1b[B":    keyDown,
		"\x1b[C":    keyRight,
		"\x1b[D":    keyLeft,
		"\x1b[H":    keyHome,
		"\x1b[F":    keyEnd,
		"\x1b[1;3A": keyUp | keyAlt,
		"\x1b[1;3B": keyDown | keyAlt,
		"\x1b[1;3C": keyRight | keyAlt,
		"\x1b[1;3D": keyLeft | keyAlt,
		"\x1b[1;9A": keyUp | keyAlt,
		"\x1b[1;9B": keyDown | keyAlt,
		"\x1b[1;9C": keyRight | keyAlt,
		"\x1b[1;9D": keyLeft | keyAlt,
		"\x1b[1;5A": keyUp | keyCtrl,
		"\x1b[1;5B": keyDown | keyCtrl,
		"\x1b[1;5C": keyRight | keyCtrl,
		"\x1b[1;5D": keyLeft | keyCtrl,
		"\x1b[1~":   keyHome,
		"\x1b[200~": keyPasteStart,
		"\x1b[201~": keyPasteEnd,
		"\x1b[3~":   keyDelete,
		"\x1b[4~":   keyEnd,
		"\x1b[5~":   keyPageUp,
		"\x1b[6~":   keyPageDown,
		"\x1b[7~":   keyHome,
		"\x1b[8~":   keyEnd,
	}

	incomplete := map[string]rune{
		"":          utf8.RuneError,
		"\x1b":      utf8.RuneError,
		"\x1b[G":    keyUnknown,
		"\x1b[10":   utf8.RuneError,
		"\x1b[1;":   utf8.RuneError,
		"\x1b[1;3E": keyUnknown,
		"\x1b[1;5E": keyUnknown,
		"\x1b[9":    utf8.RuneError,
	}

	for seq, key := range sequences {
		k, _ := parseKey([]byte(seq))
		require.Equalf(t, key, k, "%q", seq)

		// An escape prefix on an escape sequence adds the keyAlt modifier.
		prefixed := "\x1b" + seq
		k, _ = parseKey([]byte(prefixed))
		expect := key
		if key != keyPasteStart && key != keyPasteEnd {
			expect |= keyAlt
		}
		require.Equalf(t, expect, k, "%q", prefixed)
	}

	for seq, key := range incomplete {
		k, _ := parseKey([]byte(seq))
		require.Equal(t, key, k, "%q", seq)
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		packed rune
		want   KeyEvent
	}{
		{keyCtrlA, KeyEvent{Code: 'A', Mods: ModCtrl}},
		{'a', KeyEvent{Code: 'a', Mods: 0}},
		{'a' | keyCtrl, KeyEvent{Code: 'A', Mods: ModCtrl}},
		{'f' | keyAlt, KeyEvent{Code: 'f', Mods: ModAlt}},
		{keyTab | keyShift, KeyEvent{Code: keyBackTab, Mods: 0}},
		{keyUp | keyCtrl | keyAlt, KeyEvent{Code: keyUp, Mods: ModCtrl | ModAlt}},
	}
	for _, c := range cases {
		got := normalizeKey(c.packed)
		require.Equal(t, c.want, got)
	}
}

func TestKeyEventNormalizeIdempotent(t *testing.T) {
	events := []KeyEvent{
		{Code: 'A', Mods: ModCtrl},
		{Code: 'f', Mods: ModAlt},
		{Code: keyUp, Mods: ModCtrl | ModAlt},
		{Code: keyBackTab, Mods: 0},
	}
	for _, e := range events {
		require.Equal(t, e, e.normalize())
	}
}
