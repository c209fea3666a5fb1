package edged

import "unicode"

// changeKind tags a single entry in the change log.
type changeKind int

const (
	changeBegin changeKind = iota
	changeEnd
	changeInsert
	changeDelete
)

type change struct {
	kind changeKind
	idx  int
	text string
	dir  Direction
}

// Changeset is a listener on LineBuffer mutations that also tracks explicit
// begin/end group markers driven by the command dispatcher, enabling
// grouped undo/redo. While undoing is true its own listener methods ignore
// every notification, so the buffer edits Undo/Redo make while replaying are
// not recorded a second time.
type Changeset struct {
	undos   []change
	redos   []change
	nesting int
	undoing bool
}

var _ BufferListener = (*Changeset)(nil)

// InsertChar implements BufferListener.
func (c *Changeset) InsertChar(idx int, r rune) {
	if c.undoing {
		return
	}
	c.record(change{kind: changeInsert, idx: idx, text: string(r)})
}

// InsertStr implements BufferListener.
func (c *Changeset) InsertStr(idx int, s string) {
	if c.undoing {
		return
	}
	c.record(change{kind: changeInsert, idx: idx, text: s})
}

// Delete implements BufferListener.
func (c *Changeset) Delete(idx int, s string, dir Direction) {
	if c.undoing {
		return
	}
	c.record(change{kind: changeDelete, idx: idx, text: s, dir: dir})
}

// record appends ch to the undo stack, coalescing it into the previous
// change when ch is one alphanumeric character extending the previous
// change's alphanumeric run at the same seam (see coalesce),
// and clears the redo stack since this is a new destructive edit.
func (c *Changeset) record(ch change) {
	c.redos = c.redos[:0]
	if n := len(c.undos); n > 0 && c.nesting == 0 {
		prev := &c.undos[n-1]
		if coalesce(prev, ch) {
			return
		}
	}
	c.undos = append(c.undos, ch)
}

func isAlnumRune(s string) bool {
	if len(s) == 0 {
		return false
	}
	r := []rune(s)
	if len(r) != 1 {
		return false
	}
	return unicode.IsLetter(r[0]) || unicode.IsDigit(r[0])
}

// coalesce merges ch into prev in place when ch is a single alphanumeric
// character, prev is an all-alphanumeric run (possibly already coalesced)
// of the same kind, and the two meet at a seam: consecutive inserts whose
// new text directly follows the previous insert's text, or consecutive
// deletes (forward or backward) whose removed span is adjacent to the
// previous one.
func coalesce(prev *change, ch change) bool {
	if prev.kind != ch.kind || !isAlnumRune(ch.text) || prev.text == "" {
		return false
	}
	for _, r := range prev.text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	switch ch.kind {
	case changeInsert:
		if ch.idx == prev.idx+len(prev.text) {
			prev.text += ch.text
			return true
		}
	case changeDelete:
		switch ch.dir {
		case DirForward:
			if ch.idx == prev.idx {
				prev.text += ch.text
				return true
			}
		case DirBackward:
			if ch.idx+len(ch.text) == prev.idx {
				prev.text = ch.text + prev.text
				prev.idx = ch.idx
				return true
			}
		}
	}
	return false
}

// Begin opens a new undo group. Groups nest; only the outermost pair's
// emptiness is checked when it closes.
func (c *Changeset) Begin() {
	c.nesting++
	c.undos = append(c.undos, change{kind: changeBegin})
}

// End closes the innermost open group. If the pair recorded no net change,
// it is elided silently.
func (c *Changeset) End() {
	if c.nesting == 0 {
		return
	}
	c.nesting--
	if n := len(c.undos); n > 0 && c.undos[n-1].kind == changeBegin {
		c.undos = c.undos[:n-1]
		return
	}
	c.undos = append(c.undos, change{kind: changeEnd})
}

// LastInsert returns the text inserted by the most recent group (or by the
// trailing run of ungrouped inserts), stopping at the first delete found
// walking back. The keymap's Vi "." does not call it; "." repeats the last
// command instead.
func (c *Changeset) LastInsert() (string, bool) {
	depth := 0
	var text string
	found := false
	for i := len(c.undos) - 1; i >= 0; i-- {
		ch := c.undos[i]
		switch ch.kind {
		case changeEnd:
			if found && depth == 0 {
				return text, found
			}
			depth++
		case changeBegin:
			depth--
			if depth <= 0 {
				return text, found
			}
		case changeInsert:
			text = ch.text + text
			found = true
		case changeDelete:
			return text, found
		}
	}
	return text, found
}

// Undo pops whole groups from the undo stack until n groups have been
// reversed (or the stack is exhausted), applying each reverse action to buf
// and pushing the reversed action onto redos. Returns false if there was
// nothing to undo.
func (c *Changeset) Undo(buf *LineBuffer, n int) bool {
	any := false
	c.undoing = true
	defer func() { c.undoing = false }()

	for i := 0; i < n; i++ {
		if !c.undoOneGroup(buf) {
			break
		}
		any = true
	}
	return any
}

func (c *Changeset) undoOneGroup(buf *LineBuffer) bool {
	if len(c.undos) == 0 {
		return false
	}

	// A group is either a single bare Insert/Delete entry, or a
	// Begin..(entries)..End span.
	n := len(c.undos)
	last := c.undos[n-1]
	if last.kind == changeEnd {
		c.undos = c.undos[:n-1]
		var group []change
		depth := 0
		for len(c.undos) > 0 {
			m := len(c.undos)
			e := c.undos[m-1]
			c.undos = c.undos[:m-1]
			if e.kind == changeEnd {
				depth++
				group = append(group, e)
				continue
			}
			if e.kind == changeBegin {
				if depth == 0 {
					break
				}
				depth--
				group = append(group, e)
				continue
			}
			group = append(group, e)
		}
		c.redos = append(c.redos, change{kind: changeBegin})
		for _, e := range group {
			c.applyReverse(buf, e)
		}
		c.redos = append(c.redos, change{kind: changeEnd})
		return true
	}

	c.undos = c.undos[:n-1]
	c.redos = append(c.redos, change{kind: changeBegin})
	c.applyReverse(buf, last)
	c.redos = append(c.redos, change{kind: changeEnd})
	return true
}

// applyReverse applies the inverse of ch to buf and records the forward
// (redo) entry by directly appending to c.redos (the buffer listener is
// disarmed via c.undoing, so this bypasses c.record/coalescing on purpose:
// redo entries must replay exactly, not coalesce).
func (c *Changeset) applyReverse(buf *LineBuffer, ch change) {
	switch ch.kind {
	case changeInsert:
		buf.pos = ch.idx + len(ch.text)
		removed := buf.deleteRange(ch.idx, ch.idx+len(ch.text), DirForward)
		c.redos = append(c.redos, change{kind: changeInsert, idx: ch.idx, text: removed})
	case changeDelete:
		buf.pos = ch.idx
		buf.InsertStr(ch.idx, ch.text)
		c.redos = append(c.redos, change{kind: changeDelete, idx: ch.idx, text: ch.text, dir: ch.dir})
	}
}

// Redo replays n previously-undone groups.
func (c *Changeset) Redo(buf *LineBuffer, n int) bool {
	any := false
	c.undoing = true
	defer func() { c.undoing = false }()

	for i := 0; i < n; i++ {
		if !c.redoOneGroup(buf) {
			break
		}
		any = true
	}
	return any
}

func (c *Changeset) redoOneGroup(buf *LineBuffer) bool {
	if len(c.redos) == 0 {
		return false
	}
	n := len(c.redos)
	last := c.redos[n-1]
	if last.kind == changeEnd {
		c.redos = c.redos[:n-1]
		var group []change
		depth := 0
		for len(c.redos) > 0 {
			m := len(c.redos)
			e := c.redos[m-1]
			c.redos = c.redos[:m-1]
			if e.kind == changeEnd {
				depth++
				group = append(group, e)
				continue
			}
			if e.kind == changeBegin {
				if depth == 0 {
					break
				}
				depth--
				group = append(group, e)
				continue
			}
			group = append(group, e)
		}
		c.undos = append(c.undos, change{kind: changeBegin})
		for _, e := range group {
			c.applyForward(buf, e)
		}
		c.undos = append(c.undos, change{kind: changeEnd})
		return true
	}
	c.redos = c.redos[:n-1]
	c.undos = append(c.undos, change{kind: changeBegin})
	c.applyForward(buf, last)
	c.undos = append(c.undos, change{kind: changeEnd})
	return true
}

func (c *Changeset) applyForward(buf *LineBuffer, ch change) {
	switch ch.kind {
	case changeInsert:
		buf.pos = ch.idx
		buf.InsertStr(ch.idx, ch.text)
		c.undos = append(c.undos, change{kind: changeInsert, idx: ch.idx, text: ch.text})
	case changeDelete:
		buf.pos = ch.idx + len(ch.text)
		removed := buf.deleteRange(ch.idx, ch.idx+len(ch.text), ch.dir)
		c.undos = append(c.undos, change{kind: changeDelete, idx: ch.idx, text: removed, dir: ch.dir})
	}
}

// Truncate discards every undo entry recorded since mark (a length snapshot
// of the undo slice), without applying anything. Used to drop Vi motion
// bookkeeping that never produced a net edit.
func (c *Changeset) Truncate(mark int) {
	if mark < len(c.undos) {
		c.undos = c.undos[:mark]
	}
}

// Mark returns a snapshot usable with Truncate.
func (c *Changeset) Mark() int { return len(c.undos) }
