package edged

import "strings"

// longestCommonPrefix returns the longest common prefix shared by every
// string in cands, or "" if cands is empty.
func longestCommonPrefix(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	lcp := cands[0]
	for _, c := range cands[1:] {
		i := 0
		for i < len(lcp) && i < len(c) && lcp[i] == c[i] {
			i++
		}
		lcp = lcp[:i]
		if lcp == "" {
			break
		}
	}
	return lcp
}

// runCompletion is the §4.K entry point: invoke the completer once, apply
// any LCP extension, then if more than one candidate remains, hand off to
// the circular or list sub-loop per Config.CompletionType. backward is
// reserved for CompleteBackward's reverse initial direction in the circular
// loop.
func (d *Dispatcher) runCompletion(backward bool) {
	es := d.es
	line := es.Buffer.String()
	pos := es.Buffer.Pos()
	start, cands, err := es.helper.Completer.Complete(line, pos)
	if err != nil || len(cands) == 0 {
		d.term.Renderer().Beep()
		return
	}

	word := line[start:pos]
	lcp := longestCommonPrefix(cands)
	if len(lcp) > len(word) {
		es.Buffer.Replace(start, pos, lcp)
		pos = es.Buffer.Pos()
	}
	if len(cands) == 1 {
		es.render(d.term.Renderer())
		return
	}
	if lcp == word && len(lcp) >= len(word) && allEqual(cands, lcp) {
		d.term.Renderer().Beep()
		return
	}

	switch d.cfg.CompletionType {
	case CompletionList:
		d.completionList(start, cands)
	default:
		d.completionCircular(start, cands, backward)
	}
}

func allEqual(cands []string, s string) bool {
	for _, c := range cands {
		if c != s {
			return false
		}
	}
	return true
}

// completionCircular implements the Vim-style circular sub-loop: idx ranges
// over [0..N] where N==len(cands) means "back to the original input".
func (d *Dispatcher) completionCircular(start int, cands []string, backward bool) {
	es := d.es
	savedLine := es.Buffer.String()
	savedPos := es.Buffer.Pos()
	n := len(cands)
	idx := 0
	if backward {
		idx = n - 1
	}

	apply := func(i int) {
		if i == n {
			es.Buffer.Update(savedLine, savedPos)
			return
		}
		es.Buffer.Replace(start, es.Buffer.Len(), cands[i])
	}
	apply(idx)
	d.renderPager(cands, idx)

	for {
		key, err := d.term.Reader().NextKey(true)
		if err != nil {
			return
		}
		switch {
		case key.Code == keyTab && key.Mods == 0:
			prev := idx
			idx = (idx + 1) % (n + 1)
			if idx == n && prev != n {
				d.term.Renderer().Beep()
			}
			apply(idx)
			d.renderPager(cands, idx)
		case key.Code == keyBackTab || (key.Mods&ModCtrl != 0 && key.Code == 'P'):
			idx = (idx - 1 + n + 1) % (n + 1)
			apply(idx)
			d.renderPager(cands, idx)
		case key.Code == keyEscape || (key.Mods&ModCtrl != 0 && key.Code == 'G'):
			es.Buffer.Update(savedLine, savedPos)
			d.clearPager()
			es.render(d.term.Renderer())
			return
		default:
			d.clearPager()
			es.render(d.term.Renderer())
			return
		}
	}
}

// completionList implements the Bash-style list UI: it prints every
// candidate in columns as soon as it is called, without waiting for a
// second Tab and without pagination. When the count exceeds
// Config.CompletionPromptLimit it first reads one key, writing no question,
// and prints only if that key is y or Y.
func (d *Dispatcher) completionList(start int, cands []string) {
	es := d.es
	if len(cands) > d.cfg.CompletionPromptLimit {
		key, err := d.term.Reader().NextKey(true)
		if err != nil || !(key.Code == 'y' || key.Code == 'Y') {
			es.render(d.term.Renderer())
			return
		}
	}
	var b strings.Builder
	b.WriteString("\n")
	cols := d.term.Renderer().Columns()
	colWidth := 0
	for _, c := range cands {
		if len(c) > colWidth {
			colWidth = len(c)
		}
	}
	colWidth += 2
	perRow := cols / colWidth
	if perRow < 1 {
		perRow = 1
	}
	for i, c := range cands {
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", colWidth-len(c)))
		if (i+1)%perRow == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	_, _ = d.term.Write([]byte(b.String()))
	es.render(d.term.Renderer())
}

// renderPager draws the candidate table below the current line, marking the
// selected entry, row-major and column-packed to the terminal width; sel==N
// (one past the last candidate) highlights nothing, representing "original
// input".
func (d *Dispatcher) renderPager(cands []string, sel int) {
	es := d.es
	r := d.term.Renderer()
	cols := r.Columns()
	colWidth := 0
	for _, c := range cands {
		if len(c) > colWidth {
			colWidth = len(c)
		}
	}
	colWidth += 3
	perRow := cols / colWidth
	if perRow < 1 {
		perRow = 1
	}
	maxRows := r.Rows() - 2
	if maxRows < 1 {
		maxRows = 1
	}

	var b strings.Builder
	rowsUsed := 0
	for i := 0; i < len(cands) && rowsUsed < maxRows; i += perRow {
		for j := i; j < i+perRow && j < len(cands); j++ {
			prefix := "  "
			if j == sel {
				prefix = "> "
			}
			entry := prefix + cands[j]
			pad := colWidth - len(entry)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(entry)
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("\n")
		rowsUsed++
	}
	es.render(r)
	_, _ = d.term.Write([]byte(b.String()))
}

// clearPager erases the pager block; the next full render (which the caller
// always performs immediately after) overwrites it from the top.
func (d *Dispatcher) clearPager() {}
