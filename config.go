package edged

// EditMode selects the keymap dialect driving the input state machine.
type EditMode int

const (
	Emacs EditMode = iota
	Vi
)

// CompletionType selects which interactive completion UI Complete enters.
type CompletionType int

const (
	// CompletionCircular cycles candidates in place (Vim-style).
	CompletionCircular CompletionType = iota
	// CompletionList prints a paginated table of every candidate (Bash-style).
	CompletionList
)

// HistoryDuplicates controls whether repeated entries are added to history.
type HistoryDuplicates int

const (
	// HistoryIgnoreConsecutive skips adding an entry identical to the most
	// recent one.
	HistoryIgnoreConsecutive HistoryDuplicates = iota
	// HistoryAlwaysAdd adds every submitted line, even consecutive repeats.
	HistoryAlwaysAdd
)

// ColorMode controls whether the renderer/helpers should assume the output
// stream supports ANSI color.
type ColorMode int

const (
	// ColorEnabled follows Terminal.ColorsEnabled (the default: on iff the
	// output is a tty).
	ColorEnabled ColorMode = iota
	// ColorForced always enables color, even when output isn't a tty.
	ColorForced
	// ColorDisabled never enables color.
	ColorDisabled
)

// Behavior selects how the Editor acquires its input/output streams.
type Behavior int

const (
	// DefaultStdio reads from os.Stdin and writes to os.Stdout.
	DefaultStdio Behavior = iota
	// ArbitraryFileDescriptors reads/writes from caller-supplied streams (see
	// WithInputOutput/WithTTY).
	ArbitraryFileDescriptors
)

// Config holds construct-once settings for an Editor. Config is read-only
// once a ReadLine call is in progress.
type Config struct {
	MaxHistorySize         int
	HistoryDuplicates      HistoryDuplicates
	HistoryIgnoreSpace     bool
	CompletionType         CompletionType
	CompletionPromptLimit  int
	KeySeqTimeoutMS        int
	EditMode               EditMode
	AutoAddHistory         bool
	ColorMode              ColorMode
	TabStop                int
	IndentSize             int
	Behavior               Behavior
}

// DefaultConfig returns the spec-mandated defaults. KeySeqTimeoutMS starts
// at -1 (no timeout); at the start of each ReadLine call
// applyEditModeTimeout turns a value still at -1 into 500ms when EditMode is
// Vi. Any other value set with WithKeySeqTimeout is left as it is.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:        100,
		HistoryDuplicates:     HistoryIgnoreConsecutive,
		HistoryIgnoreSpace:    false,
		CompletionType:        CompletionCircular,
		CompletionPromptLimit: 100,
		KeySeqTimeoutMS:       -1,
		EditMode:              Emacs,
		AutoAddHistory:        false,
		ColorMode:             ColorEnabled,
		TabStop:               8,
		IndentSize:            2,
		Behavior:              DefaultStdio,
	}
}
