// Package g2p provides the linguistic front-end contract: text in, phoneme
// string out, with optional per-word token metadata for timestamping.
// Variants (builtin rules, external phonemizer command) all satisfy the same
// Processor interface and are selected by configuration at construction.
package g2p

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned by Configure for languages the variant
// cannot phonemize.
var ErrUnsupportedLanguage = errors.New("g2p: unsupported language")

// ErrProcessorNotInitialized is returned by Process when Configure has not
// succeeded yet.
var ErrProcessorNotInitialized = errors.New("g2p: processor not initialized")

// Token is a word-or-punctuation unit with its phonemes and, after the
// engine's timestamp join, the frame and time range it occupies.
type Token struct {
	Text     string  `json:"text"`
	Phonemes string  `json:"phonemes"`
	// StartFrame/EndFrame are half-open [start, end) acoustic frame indices;
	// StartSec/EndSec express the same range in seconds. All are zero until
	// the join step runs.
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
}

// Processor is the linguistic front-end capability.
type Processor interface {
	// Configure prepares the processor for a language (BCP 47 tag, e.g.
	// "en-US"). It must be called before Process.
	Configure(language string) error

	// Process converts text into a phoneme string.
	Process(text string) (string, error)

	// ProcessWithTokens additionally returns per-word token metadata whose
	// order matches the phoneme string.
	ProcessWithTokens(text string) (string, []Token, error)
}

// Backend names for New.
const (
	BackendRule    = "rule"
	BackendCommand = "command"
)

// Options selects and parameterizes a Processor variant.
type Options struct {
	Backend string
	// Command is the external phonemizer executable for BackendCommand.
	Command string
}

// New constructs the configured Processor variant. The zero Backend selects
// the builtin rule processor.
func New(opts Options) (Processor, error) {
	switch opts.Backend {
	case "", BackendRule:
		return NewRuleProcessor(), nil
	case BackendCommand:
		return NewCommandProcessor(opts.Command), nil
	default:
		return nil, fmt.Errorf("g2p: unknown backend %q", opts.Backend)
	}
}
