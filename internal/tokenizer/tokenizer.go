// Package tokenizer converts phoneme strings into the integer id sequences
// consumed by the synthesis models. The vocabulary is the fixed phoneme
// symbol table the models were trained with, not a learned subword model.
package tokenizer

import "errors"

// MaxTokenCount is the longest phoneme id sequence the models accept,
// excluding the two boundary markers added before encoding.
const MaxTokenCount = 510

// BoundaryID is the sentinel id padded at both ends of every sequence.
const BoundaryID int64 = 0

// ErrTooManyTokens is returned when a phoneme string encodes to more than
// MaxTokenCount ids. Inputs are never silently truncated.
var ErrTooManyTokens = errors.New("tokenizer: phoneme sequence exceeds maximum token count")

// Tokenizer encodes a phoneme string into model token ids.
type Tokenizer interface {
	// Encode maps phonemes to ids. Symbols outside the vocabulary are
	// skipped. Returns ErrTooManyTokens when the result would exceed
	// MaxTokenCount.
	Encode(phonemes string) ([]int64, error)
}

// PadBoundaries returns a copy of ids with BoundaryID prepended and appended.
func PadBoundaries(ids []int64) []int64 {
	out := make([]int64, 0, len(ids)+2)
	out = append(out, BoundaryID)
	out = append(out, ids...)
	out = append(out, BoundaryID)

	return out
}
