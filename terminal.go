package edged

import (
	"bufio"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrEOF is returned by RawReader.NextKey when the underlying stream is
// closed with no further input, e.g. stdin at EOF.
var ErrEOF = errors.New("edged: eof")

// ErrInterrupted is surfaced by the dispatcher's Interrupt command.
var ErrInterrupted = errors.New("edged: interrupted")

// RawReader is the key-stream contract consumed by InputState.NextCmd.
type RawReader interface {
	// NextKey blocks for one normalized key event. If singleEscAbort holds
	// and a bare Esc isn't followed by another byte within the keyseq
	// timeout, a bare Esc KeyEvent is delivered; otherwise the reader keeps
	// waiting for the rest of an escape sequence.
	NextKey(singleEscAbort bool) (KeyEvent, error)
	// NextChar returns the next decoded Unicode scalar, bypassing escape
	// sequence interpretation; used by quoted-insert (Ctrl-V/Ctrl-Q).
	NextChar() (rune, error)
	// ReadPastedText returns the literal text between a bracketed-paste
	// start and end marker.
	ReadPastedText() (string, error)
}

// Terminal is the capability surface the Editor needs from its input/output
// streams: entering/exiting raw mode, size queries, color support, and
// access to the reader/renderer pair. The default implementation wraps
// golang.org/x/term over Unix file descriptors; Windows console handling is
// out of scope for this core (see the escape-decoding rules for readers that
// instead consume INPUT_RECORDs).
type Terminal interface {
	IsTTY() bool
	EnterRawMode() error
	ExitRawMode() error
	ColorsEnabled() bool
	Columns() int
	Rows() int
	Reader() RawReader
	Renderer() *Renderer
	Write(p []byte) (int, error)
	// Resized reports and clears the SIGWINCH-observed flag.
	Resized() bool
}

// unixTerminal is the one Terminal implementation this package ships.
type unixTerminal struct {
	in        *os.File
	out       *os.File
	inFd      int
	state     *term.State
	raw       bool
	color     ColorMode
	reader    *termReader
	renderer  *Renderer
	resized   chan struct{}
	resizedOn bool
}

// NewUnixTerminal wraps in/out; its initial size is queried from in (80x40
// when in is not a terminal or the query fails).
func NewUnixTerminal(in, out *os.File, tabStop int, color ColorMode) *unixTerminal {
	t := &unixTerminal{in: in, out: out, inFd: int(in.Fd()), color: color}
	cols, rows := t.queriedSize()
	t.renderer = NewRenderer(cols, rows, tabStop)
	t.reader = newTermReader(in)
	return t
}

func (t *unixTerminal) queriedSize() (int, int) {
	if !t.IsTTY() {
		return 80, 40
	}
	cols, rows, err := term.GetSize(t.inFd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 40
	}
	return cols, rows
}

func (t *unixTerminal) IsTTY() bool { return term.IsTerminal(t.inFd) }

func (t *unixTerminal) EnterRawMode() error {
	if t.raw || !t.IsTTY() {
		return nil
	}
	st, err := term.MakeRaw(t.inFd)
	if err != nil {
		return err
	}
	t.state, t.raw = st, true
	return nil
}

func (t *unixTerminal) ExitRawMode() error {
	if !t.raw {
		return nil
	}
	t.raw = false
	return term.Restore(t.inFd, t.state)
}

func (t *unixTerminal) ColorsEnabled() bool {
	switch t.color {
	case ColorForced:
		return true
	case ColorDisabled:
		return false
	default:
		return t.IsTTY()
	}
}

func (t *unixTerminal) Columns() int { cols, _ := t.queriedSize(); return cols }
func (t *unixTerminal) Rows() int    { _, rows := t.queriedSize(); return rows }

func (t *unixTerminal) Reader() RawReader   { return t.reader }
func (t *unixTerminal) Renderer() *Renderer { return t.renderer }

func (t *unixTerminal) Write(p []byte) (int, error) { return t.out.Write(p) }

// Resized reports and clears resizedOn. No SIGWINCH handler is installed and
// nothing sets resizedOn, so it always reports false.
func (t *unixTerminal) Resized() bool {
	r := t.resizedOn
	t.resizedOn = false
	return r
}

// termReader decodes the raw byte stream from r into KeyEvents via
// parseKey/normalizeKey, buffering partial escape sequences across reads.
type termReader struct {
	r   *bufio.Reader
	buf []byte
}

func newTermReader(f *os.File) *termReader {
	return &termReader{r: bufio.NewReaderSize(f, 4096)}
}

func (tr *termReader) fill() error {
	b, err := tr.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return ErrEOF
		}
		return err
	}
	tr.buf = append(tr.buf, b)
	return nil
}

func (tr *termReader) NextKey(singleEscAbort bool) (KeyEvent, error) {
	for {
		if len(tr.buf) == 0 {
			if err := tr.fill(); err != nil {
				return KeyEvent{}, err
			}
		}
		packed, rest := parseKey(tr.buf)
		if packed == badRune && len(rest) == len(tr.buf) {
			// Incomplete sequence: need another byte, unless it is a bare,
			// unfollowed Esc and the caller wants it delivered immediately.
			if singleEscAbort && len(tr.buf) == 1 && tr.buf[0] == keyEscape && !tr.more() {
				tr.buf = nil
				return KeyEvent{Code: keyEscape}, nil
			}
			if err := tr.fill(); err != nil {
				return KeyEvent{}, err
			}
			continue
		}
		tr.buf = rest
		return normalizeKey(packed), nil
	}
}

// more reports whether another byte is already buffered in the underlying
// bufio.Reader without blocking, approximating the keyseq timeout check.
func (tr *termReader) more() bool {
	_, err := tr.r.Peek(1)
	return err == nil
}

const badRune = 0xFFFD // utf8.RuneError, duplicated to avoid importing unicode/utf8 here

func (tr *termReader) NextChar() (rune, error) {
	for len(tr.buf) == 0 {
		if err := tr.fill(); err != nil {
			return 0, err
		}
	}
	r, size := decodeRuneAt(tr.buf, 0)
	tr.buf = tr.buf[size:]
	return r, nil
}

func (tr *termReader) ReadPastedText() (string, error) {
	var out []byte
	for {
		key, err := tr.NextKey(false)
		if err != nil {
			return string(out), err
		}
		if key.Code == keyPasteEnd {
			return string(out), nil
		}
		code := key.Code
		if key.Mods&ModCtrl != 0 && code >= 'A' && code <= 'Z' {
			// normalizeKey turned a raw control byte into Ctrl+letter;
			// keep the byte itself in the pasted text.
			code -= 0x40
		}
		out = append(out, []byte(string(code))...)
	}
}
