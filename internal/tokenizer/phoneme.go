package tokenizer

// PhonemeTokenizer encodes IPA phoneme strings against the fixed model
// vocabulary using greedy longest-match (two runes, then one).
type PhonemeTokenizer struct {
	vocab map[string]int64
}

// NewPhonemeTokenizer returns a tokenizer over the default model vocabulary.
func NewPhonemeTokenizer() *PhonemeTokenizer {
	return &PhonemeTokenizer{vocab: defaultVocab}
}

// VocabSize reports the number of distinct ids, including the boundary id.
func (t *PhonemeTokenizer) VocabSize() int {
	return len(t.vocab) + 1
}

// Encode maps a phoneme string to token ids. Multi-rune symbols (diphthongs,
// affricates) are matched before single runes; unknown symbols are skipped.
func (t *PhonemeTokenizer) Encode(phonemes string) ([]int64, error) {
	runes := []rune(phonemes)
	ids := make([]int64, 0, len(runes))

	for i := 0; i < len(runes); {
		if i+1 < len(runes) {
			if id, ok := t.vocab[string(runes[i:i+2])]; ok {
				ids = append(ids, id)
				i += 2

				continue
			}
		}

		if id, ok := t.vocab[string(runes[i])]; ok {
			ids = append(ids, id)
		}

		i++
	}

	if len(ids) > MaxTokenCount {
		return nil, ErrTooManyTokens
	}

	return ids, nil
}

// Units reports how many ids a phoneme string contributes without enforcing
// the length bound. Used when joining per-token durations back onto word
// metadata.
func (t *PhonemeTokenizer) Units(phonemes string) int {
	runes := []rune(phonemes)
	count := 0

	for i := 0; i < len(runes); {
		if i+1 < len(runes) {
			if _, ok := t.vocab[string(runes[i:i+2])]; ok {
				count++
				i += 2

				continue
			}
		}

		if _, ok := t.vocab[string(runes[i])]; ok {
			count++
		}

		i++
	}

	return count
}

// defaultVocab is the phoneme symbol table the models were trained with.
// Id 0 is reserved for the boundary marker.
var defaultVocab = map[string]int64{
	" ":  1,
	"ɑ":  2,
	"æ":  3,
	"ʌ":  4,
	"ɔ":  5,
	"aʊ": 6,
	"aɪ": 7,
	"b":  8,
	"tʃ": 9,
	"d":  10,
	"ð":  11,
	"ɛ":  12,
	"ɝ":  13,
	"ɚ":  14,
	"eɪ": 15,
	"f":  16,
	"ɡ":  17,
	"h":  18,
	"i":  19,
	"ɪ":  20,
	"dʒ": 21,
	"k":  22,
	"l":  23,
	"m":  24,
	"n":  25,
	"ŋ":  26,
	"oʊ": 27,
	"ɔɪ": 28,
	"p":  29,
	"ɹ":  30,
	"s":  31,
	"ʃ":  32,
	"t":  33,
	"θ":  34,
	"u":  35,
	"ʊ":  36,
	"v":  37,
	"w":  38,
	"j":  39,
	"z":  40,
	"ʒ":  41,
	".":  42,
	",":  43,
	"ə":  44,
	"!":  45,
	"?":  46,
}
