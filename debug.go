package edged

import (
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"
)

var dbg = struct {
	sync.Once
	w   io.WriteCloser
	err error
}{}

func initDebug() {
	path := os.Getenv("EDGED_DEBUG")
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		dbg.err = err
		return
	}
	dbg.w = f
}

func debugPrintf(format string, args ...interface{}) {
	dbg.Do(initDebug)
	if dbg.w == nil {
		return
	}
	fmt.Fprintf(dbg.w, format, args...)
}

func debugKey(r rune) string {
	if r < 32 {
		return "Control-" + string(rune(r+0x60))
	}

	var s string
	switch b := r & ^(keyAlt | keyCtrl); b {
	case utf8.RuneError:
		s = "<incomplete>"
	case keyBackspace:
		s = "<backspace>"
	case keyUnknown:
		s = "<unknown>"
	case keyUp:
		s = "<up>"
	case keyDown:
		s = "<down>"
	case keyLeft:
		s = "<left>"
	case keyRight:
		s = "<right>"
	case keyHome:
		s = "<home>"
	case keyEnd:
		s = "<end>"
	case keyPageUp:
		s = "<page-up>"
	case keyPageDown:
		s = "<page-down>"
	case keyDelete:
		s = "<delete>"
	case keyPasteStart:
		s = "<paste-start>"
	case keyPasteEnd:
		s = "<paste-end>"
	default:
		s = string(b)
	}

	if (r & keyAlt) != 0 {
		s = "Meta-" + s
	}
	if (r & keyCtrl) != 0 {
		s = "Control-" + s
	}
	return s
}

// debugCmd renders a Cmd for tracing, logged by the read loop just after
// NextCmd resolves a key into a command, when EDGED_DEBUG is set.
func debugCmd(cmd Cmd) string {
	switch cmd.Kind {
	case CmdSelfInsert:
		return fmt.Sprintf("self-insert %q", cmd.Char)
	case CmdMove:
		return fmt.Sprintf("move kind=%d count=%d", cmd.Movement.Kind, cmd.Count)
	case CmdKill:
		return fmt.Sprintf("kill kind=%d count=%d", cmd.Movement.Kind, cmd.Count)
	default:
		return fmt.Sprintf("cmd kind=%d count=%d", cmd.Kind, cmd.Count)
	}
}
