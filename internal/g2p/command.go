package g2p

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/example/go-kokoro-tts/internal/text"
)

// CommandProcessor shells out to an external phonemizer (espeak-ng style):
// text on stdin, one IPA phoneme line per input line on stdout. The language
// is passed with -v; word token metadata is derived by splitting the
// phonemizer output on whitespace in input word order.
type CommandProcessor struct {
	executable string
	language   string
}

// NewCommandProcessor returns an unconfigured command processor. An empty
// executable falls back to "espeak-ng".
func NewCommandProcessor(executable string) *CommandProcessor {
	if executable == "" {
		executable = "espeak-ng"
	}

	return &CommandProcessor{executable: executable}
}

// Configure probes the executable for the language and remembers it.
func (p *CommandProcessor) Configure(language string) error {
	lang := strings.TrimSpace(language)
	if lang == "" {
		return ErrUnsupportedLanguage
	}

	cmd := exec.Command(p.executable, "--ipa", "-q", "-v", lang, "ok")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %q via %s: %v", ErrUnsupportedLanguage, language, p.executable, err)
	}

	p.language = lang

	return nil
}

func (p *CommandProcessor) Process(input string) (string, error) {
	phonemes, _, err := p.process(input)
	return phonemes, err
}

func (p *CommandProcessor) ProcessWithTokens(input string) (string, []Token, error) {
	return p.process(input)
}

func (p *CommandProcessor) process(input string) (string, []Token, error) {
	if p.language == "" {
		return "", nil, ErrProcessorNotInitialized
	}

	normalized, err := text.Normalize(input)
	if err != nil {
		return "", nil, err
	}

	cmd := exec.Command(p.executable, "--ipa", "-q", "-v", p.language)
	cmd.Stdin = strings.NewReader(normalized)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", nil, fmt.Errorf("g2p: run %s: %w", p.executable, err)
	}

	phonemes := strings.Join(strings.Fields(out.String()), " ")
	if phonemes == "" {
		return "", nil, fmt.Errorf("g2p: %s produced no phonemes", p.executable)
	}

	words := strings.Fields(normalized)
	parts := strings.Fields(out.String())

	// The phonemizer emits one whitespace-separated phoneme group per word;
	// if its grouping disagrees with our word split, fall back to a single
	// utterance-level token so the join step still tiles the frame axis.
	var tokens []Token
	if len(parts) == len(words) {
		tokens = make([]Token, len(words))
		for i := range words {
			tokens[i] = Token{Text: words[i], Phonemes: parts[i]}
		}
	} else {
		tokens = []Token{{Text: normalized, Phonemes: phonemes}}
	}

	return phonemes, tokens, nil
}
