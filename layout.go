package edged

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Position is a (column, row) pair in terminal cell coordinates.
type Position struct {
	Col, Row int
}

// escSeqState tracks progress through a CSI escape sequence so its bytes can
// be fed through the meter as zero-width.
type escSeqState int

const (
	escNone escSeqState = iota
	escStart
	escCSI
)

// Meter is a stateful, pure incremental measurer of displayed text width
// under line wrap, tab stops, a left margin, and ANSI escape skipping. Feeding
// strings a then b yields the same ending Position as feeding a⊕b in one
// call (the additivity invariant).
type Meter struct {
	Pos        Position
	Cols       int
	TabStop    int
	LeftMargin int
	escState   escSeqState
}

// NewMeter returns a meter starting at the origin.
func NewMeter(cols, tabStop, leftMargin int) *Meter {
	if tabStop <= 0 {
		tabStop = 8
	}
	return &Meter{Cols: cols, TabStop: tabStop, LeftMargin: leftMargin, Pos: Position{Col: leftMargin}}
}

// Update advances the meter over text and returns the new position.
func (m *Meter) Update(text string) Position {
	for len(text) > 0 {
		r, size := decodeRuneAt([]byte(text), 0)
		switch {
		case m.escState == escStart:
			if r == '[' {
				m.escState = escCSI
			} else {
				m.escState = escNone
			}
			text = text[size:]
			continue
		case m.escState == escCSI:
			text = text[size:]
			if isCSIFinal(r) {
				m.escState = escNone
			}
			continue
		case r == '\x1b':
			m.escState = escStart
			text = text[size:]
			continue
		case r == '\n':
			m.Pos.Col = m.LeftMargin
			m.Pos.Row++
			text = text[size:]
			continue
		case r == '\t':
			next := ((m.Pos.Col-m.LeftMargin)/m.TabStop+1)*m.TabStop + m.LeftMargin
			m.advanceCols(next - m.Pos.Col)
			text = text[size:]
			continue
		}

		// Consume one full grapheme cluster at a time so width is computed
		// per user-perceived character, not per code point.
		cluster, rest, _, _ := uniseg.FirstGraphemeCluster([]byte(text), -1)
		w := graphemeWidth(string(cluster))
		m.advanceCols(w)
		text = text[len(cluster):]
		_ = rest
	}
	return m.Pos
}

func (m *Meter) advanceCols(n int) {
	if n <= 0 {
		return
	}
	m.Pos.Col += n
	if m.Cols > 0 {
		for m.Pos.Col >= m.Cols {
			m.Pos.Col -= m.Cols
			m.Pos.Row++
		}
	}
}

func isCSIFinal(r rune) bool {
	return r >= '@' && r <= '~'
}

// graphemeWidth returns the display width of a single grapheme cluster,
// following the East Asian Width table via go-runewidth on the cluster's
// base rune; combining marks within the cluster contribute no extra width.
func graphemeWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r, _ := decodeRuneAt([]byte(cluster), 0)
	if r < 32 {
		return 0
	}
	return runewidth.RuneWidth(r)
}
