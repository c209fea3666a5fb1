package edged

import (
	"bytes"
	"io"
	"strconv"
)

// ANSI attribute and color constants, merged here from the teacher's
// separate output.go (which duplicated screen.go's own copies and was never
// referenced) so there is a single definition site for the escape sequences
// a Highlighter/Helper may embed in the strings it returns.
const (
	AttrBold      = "\x1b[1m"
	AttrDim       = "\x1b[2m"
	AttrReset     = "\x1b[0m"
	AttrReverse   = "\x1b[7m"
	AttrUnderline = "\x1b[4m"
)

const (
	FgDefault = "\x1b[39m"
	FgRed     = "\x1b[91m"
	FgGreen   = "\x1b[92m"
	FgYellow  = "\x1b[93m"
	FgBlue    = "\x1b[94m"
	FgCyan    = "\x1b[96m"
)

// Renderer is the terminal writer: it moves the cursor, redraws the edited
// line, clears stale rows on resize/erase, and rings the bell. It buffers
// output and only writes to the underlying io.Writer on Flush, matching the
// teacher's screen.Flush discipline.
type Renderer struct {
	cols, rows int
	tabStop    int
	leftMargin int

	// cur is the on-screen cursor position, relative to the top-left of the
	// current render block.
	cur Position
	// end is the position one past the last rendered content, i.e. how many
	// rows/cols the previous render occupied.
	end Position
	// maxRows is the largest row index used by any render since the last
	// full Reset, so resize/erase can clear every row that might still hold
	// stale content.
	maxRows int

	outbuf bytes.Buffer
}

// NewRenderer returns a renderer with the given initial terminal size.
func NewRenderer(cols, rows, tabStop int) *Renderer {
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 40
	}
	return &Renderer{cols: cols, rows: rows, tabStop: tabStop}
}

// SetSize updates the known terminal size. Width shrinking is followed by a
// full refresh by the caller since the renderer cannot know how a terminal
// chose to re-wrap now-too-long lines.
func (r *Renderer) SetSize(cols, rows int) {
	if cols <= 0 {
		cols = 1
	}
	r.cols, r.rows = cols, rows
}

func (r *Renderer) Columns() int { return r.cols }
func (r *Renderer) Rows() int    { return r.rows }

// Flush writes the buffered drawing commands to w and clears the buffer.
func (r *Renderer) Flush(w io.Writer) {
	debugPrintf("output: %q\n", r.outbuf.Bytes())
	_, _ = io.Copy(w, &r.outbuf)
	r.outbuf.Reset()
}

// Reset clears all render-position bookkeeping, for starting a fresh
// ReadLine call.
func (r *Renderer) Reset() {
	r.cur = Position{}
	r.end = Position{}
	r.maxRows = 0
}

// Beep writes a bell.
func (r *Renderer) Beep() {
	r.outbuf.WriteByte(keyCtrlG)
}

// ClearScreen moves to the top-left of the screen and erases it, then
// invalidates render-position bookkeeping so the next RefreshLine starts
// from (0,0).
func (r *Renderer) ClearScreen() {
	r.outbuf.WriteString("\x1b[H\x1b[2J")
	r.Reset()
}

// RefreshLine redraws the prompt/line/hint, per the algorithm in the
// component design: move to the top of the previous render, write the new
// visible string (erasing stale trailing content row by row), then move the
// cursor to its target position. prompt/line/hint may already contain ANSI
// styling (e.g. from a Highlighter) — Meter treats escape sequences as
// zero-width so styling never perturbs the column math.
func (r *Renderer) RefreshLine(prompt, line, hint string, cursorInLine int) {
	// Move to the top-left of the previous render block.
	r.moveTo(Position{})
	r.eraseLineToRight()

	m := NewMeter(r.cols, r.tabStop, r.leftMargin)

	var cursorPos Position
	haveCursor := false

	write := func(s string, markCursorAtEnd bool) {
		before := m.Pos
		_ = before
		for len(s) > 0 {
			nl := indexByte([]byte(s), '\n')
			var chunk string
			if nl < 0 {
				chunk = s
				s = ""
			} else {
				chunk = s[:nl]
				s = s[nl+1:]
			}
			r.outbuf.WriteString(chunk)
			m.Update(chunk)
			if nl >= 0 {
				r.eraseLineToRight()
				r.outbuf.WriteString("\r\n")
				m.Update("\n")
			}
		}
		if markCursorAtEnd {
			cursorPos = m.Pos
			haveCursor = true
		}
	}

	write(prompt, false)
	if cursorInLine <= len(line) {
		write(line[:cursorInLine], true)
		write(line[cursorInLine:], false)
	} else {
		write(line, true)
	}
	write(hint, false)
	if !haveCursor {
		cursorPos = m.Pos
	}

	r.eraseLineToRight()
	endPos := m.Pos
	r.cur = endPos

	// Clear any now-unused rows from the previous, taller render.
	for row := endPos.Row; row < r.maxRows; row++ {
		r.outbuf.WriteString("\r\n")
		r.eraseLineToRight()
	}
	if endPos.Row >= r.maxRows {
		// No rows were cleared: the cursor is still at endPos.
		r.maxRows = endPos.Row
		r.cur = endPos
	} else {
		r.cur = Position{Row: r.maxRows}
	}

	r.moveTo(cursorPos)
	r.end = endPos
}

// moveTo emits the minimal cursor-move escape sequence from r.cur to p.
func (r *Renderer) moveTo(p Position) {
	if p.Row < r.cur.Row {
		r.cursorUp(r.cur.Row - p.Row)
	} else if p.Row > r.cur.Row {
		r.cursorDown(p.Row - r.cur.Row)
	}
	if p.Col < r.cur.Col {
		r.cursorLeft(r.cur.Col - p.Col)
	} else if p.Col > r.cur.Col {
		r.cursorRight(p.Col - r.cur.Col)
	}
	r.cur = p
}

const csi = "\x1b["

func (r *Renderer) cursorUp(n int)    { r.emitMove(n, "A") }
func (r *Renderer) cursorDown(n int)  { r.emitMove(n, "B") }
func (r *Renderer) cursorRight(n int) { r.emitMove(n, "C") }
func (r *Renderer) cursorLeft(n int)  { r.emitMove(n, "D") }

func (r *Renderer) emitMove(n int, suffix string) {
	if n <= 0 {
		return
	}
	r.outbuf.WriteString(csi)
	if n > 1 {
		r.outbuf.WriteString(strconv.Itoa(n))
	}
	r.outbuf.WriteString(suffix)
}

func (r *Renderer) eraseLineToRight() {
	r.outbuf.WriteString("\x1b[K")
}
