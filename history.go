package edged

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SearchDirection selects which way StartsWith/Search scan from their start
// index.
type SearchDirection int

const (
	SearchReverse SearchDirection = iota
	SearchForward
)

// History is the interface the core consumes; it never implements storage
// itself. Duplicate/space-prefix/max-size policy belongs to the
// implementation, which signals whether an Add actually happened via its
// bool return.
type History interface {
	Len() int
	IsEmpty() bool
	Get(i int) string
	StartsWith(term string, start int, dir SearchDirection) (index int, ok bool)
	Search(term string, start int, dir SearchDirection) (index int, matchPos int, ok bool)
	Add(line string) bool
}

// HistoryCodec converts history entries to and from their single-line,
// newline-free on-disk representation, and names the header line Load uses
// to recognize the format. FileHistory.Load/Save defer to whichever codec
// is installed instead of hard-coding one escaping scheme.
type HistoryCodec interface {
	Encode(s string) string
	Decode(s string) (string, error)
	Header() string
}

// FileHistory is the reference History implementation: an in-memory slice
// backed by a flat file, with the duplicate/space/size policies from Config.
// It is the one persistent-storage backend the core ships; richer backends
// are left to callers, which need only satisfy History.
type FileHistory struct {
	entries     []string
	maxSize     int
	dupPolicy   HistoryDuplicates
	ignoreSpace bool
	path        string
	codec       HistoryCodec
}

// NewFileHistory returns an empty history governed by cfg's history policy
// fields, with the literal "#V2" codec installed by default.
func NewFileHistory(cfg Config) *FileHistory {
	return &FileHistory{
		maxSize:     cfg.MaxHistorySize,
		dupPolicy:   cfg.HistoryDuplicates,
		ignoreSpace: cfg.HistoryIgnoreSpace,
		codec:       LiteralEncoding{},
	}
}

// SetCodec overrides the on-disk entry codec Load/Save use. Pass
// VisEncoding{} to read or write libedit-style history files instead of the
// default literal "#V2" escaping.
func (h *FileHistory) SetCodec(c HistoryCodec) { h.codec = c }

func (h *FileHistory) Len() int      { return len(h.entries) }
func (h *FileHistory) IsEmpty() bool { return len(h.entries) == 0 }

func (h *FileHistory) Get(i int) string {
	if i < 0 || i >= len(h.entries) {
		return ""
	}
	return h.entries[i]
}

// Add appends line unless rejected by the ignore-space or
// ignore-consecutive-duplicate policy, then trims to maxSize.
func (h *FileHistory) Add(line string) bool {
	if line == "" {
		return false
	}
	if h.ignoreSpace && strings.HasPrefix(line, " ") {
		return false
	}
	if h.dupPolicy == HistoryIgnoreConsecutive && len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return false
	}
	h.entries = append(h.entries, line)
	if h.maxSize > 0 && len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	return true
}

// StartsWith scans from start in dir for the nearest entry with term as a
// prefix.
func (h *FileHistory) StartsWith(term string, start int, dir SearchDirection) (int, bool) {
	if term == "" || len(h.entries) == 0 {
		return 0, false
	}
	for i := clampHistoryIndex(start, len(h.entries)); i >= 0 && i < len(h.entries); i += historyStep(dir) {
		if strings.HasPrefix(h.entries[i], term) {
			return i, true
		}
	}
	return 0, false
}

// Search scans from start in dir for the nearest entry containing term
// anywhere, returning the byte offset of the match within that entry.
func (h *FileHistory) Search(term string, start int, dir SearchDirection) (int, int, bool) {
	if term == "" || len(h.entries) == 0 {
		return 0, 0, false
	}
	for i := clampHistoryIndex(start, len(h.entries)); i >= 0 && i < len(h.entries); i += historyStep(dir) {
		if pos := strings.Index(h.entries[i], term); pos >= 0 {
			return i, pos, true
		}
	}
	return 0, 0, false
}

func historyStep(dir SearchDirection) int {
	if dir == SearchForward {
		return 1
	}
	return -1
}

func clampHistoryIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Load reads entries from path using h.codec, skipping the codec's header
// line if the file starts with one. A missing file is not an error; it
// leaves the history empty.
func (h *FileHistory) Load(path string) error {
	h.path = path
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	h.entries = h.entries[:0]
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLine*2)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if line == h.codec.Header() {
				continue
			}
		}
		decoded, err := h.codec.Decode(line)
		if err != nil {
			return err
		}
		h.entries = append(h.entries, decoded)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if h.maxSize > 0 && len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	return nil
}

// Save writes every entry to path using h.codec, creating or truncating it.
func (h *FileHistory) Save(path string) error {
	h.path = path
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, h.codec.Header()); err != nil {
		return err
	}
	for _, e := range h.entries {
		if _, err := fmt.Fprintln(w, h.codec.Encode(e)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Append rewrites the whole file at path. Callers sharing one history file
// across long-lived processes may prefer a true incremental append; this
// reference implementation keeps the on-disk format simple instead.
func (h *FileHistory) Append(path string) error {
	return h.Save(path)
}

// LiteralEncoding is FileHistory's default codec: '\\' and '\n' are
// backslash-escaped, one entry per line, under a "#V2" header.
type LiteralEncoding struct{}

func (LiteralEncoding) Header() string { return "#V2" }

func (LiteralEncoding) Encode(s string) string {
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func (LiteralEncoding) Decode(s string) (string, error) {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				buf.WriteByte('\n')
			case '\\':
				buf.WriteByte('\\')
			default:
				buf.WriteByte(s[i])
			}
			continue
		}
		buf.WriteByte(s[i])
	}
	return buf.String(), nil
}
