package g2p

import (
	"strings"
	"unicode"

	"github.com/example/go-kokoro-tts/internal/text"
)

// RuleProcessor is a dictionary-plus-rules English grapheme-to-phoneme
// converter. Words found in the builtin lexicon use its IPA pronunciation;
// everything else falls back to letter rules with longest-match.
type RuleProcessor struct {
	language string
}

// NewRuleProcessor returns an unconfigured rule processor.
func NewRuleProcessor() *RuleProcessor {
	return &RuleProcessor{}
}

// Configure accepts English language tags only.
func (p *RuleProcessor) Configure(language string) error {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return ErrUnsupportedLanguage
	}

	if lang != "en" && !strings.HasPrefix(lang, "en-") {
		return ErrUnsupportedLanguage
	}

	p.language = language

	return nil
}

// Process converts text into a space-separated IPA phoneme string.
func (p *RuleProcessor) Process(input string) (string, error) {
	phonemes, _, err := p.process(input, false)
	return phonemes, err
}

// ProcessWithTokens converts text and returns per-word token metadata.
func (p *RuleProcessor) ProcessWithTokens(input string) (string, []Token, error) {
	return p.process(input, true)
}

func (p *RuleProcessor) process(input string, withTokens bool) (string, []Token, error) {
	if p.language == "" {
		return "", nil, ErrProcessorNotInitialized
	}

	normalized, err := text.Normalize(input)
	if err != nil {
		return "", nil, err
	}

	words := splitWords(normalized)

	var sb strings.Builder

	var tokens []Token
	if withTokens {
		tokens = make([]Token, 0, len(words))
	}

	for i, word := range words {
		if i > 0 {
			sb.WriteRune(' ')
		}

		ph := wordToPhonemes(word)
		sb.WriteString(ph)

		if withTokens {
			tokens = append(tokens, Token{Text: word, Phonemes: ph})
		}
	}

	return sb.String(), tokens, nil
}

func wordToPhonemes(word string) string {
	lower := strings.ToLower(word)

	if ph, ok := lexicon[lower]; ok {
		return ph
	}

	if len(word) == 1 && isPunctuation(rune(word[0])) {
		return punctuationPhoneme(rune(word[0]))
	}

	return applyLetterRules(lower)
}

// splitWords separates text into word and punctuation tokens.
func splitWords(s string) []string {
	var tokens []string

	var current strings.Builder

	for _, r := range s {
		if unicode.IsLetter(r) || r == '\'' {
			current.WriteRune(r)
			continue
		}

		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		if isPunctuation(r) {
			tokens = append(tokens, string(r))
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isPunctuation(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return true
	default:
		return false
	}
}

func punctuationPhoneme(r rune) string {
	switch r {
	case '.':
		return "."
	case '!':
		return "!"
	case '?':
		return "?"
	case ',', ';', ':':
		return ","
	}

	return ""
}

// applyLetterRules converts a word with greedy longest-match letter rules.
func applyLetterRules(word string) string {
	var result strings.Builder

	i := 0
	for i < len(word) {
		matched := false

		for length := 4; length >= 2; length-- {
			if i+length > len(word) {
				continue
			}

			if ph, ok := letterRules[word[i:i+length]]; ok {
				result.WriteString(ph)
				i += length
				matched = true

				break
			}
		}

		if !matched {
			if ph, ok := letterRules[string(word[i])]; ok {
				result.WriteString(ph)
			}

			i++
		}
	}

	return result.String()
}
