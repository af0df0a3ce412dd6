package model

import "fmt"

// Config describes the sub-model dimensions and the decoder's upsampling
// schedule. The defaults match the shipped checkpoint layout.
type Config struct {
	VocabSize    int64
	BertDim      int64
	BertLayers   int
	BertHeads    int64
	BertFFDim    int64
	MaxPositions int64
	HiddenDim    int64
	StyleDim     int64
	DurationBins int64

	// DecoderChannels has one entry per decoder stage plus the input stage;
	// Upsample holds the per-stage frame-to-sample expansion factors. The
	// product of Upsample is the hop length in samples per acoustic frame.
	DecoderChannels []int64
	Upsample        []int64

	SampleRate int
}

// DefaultConfig returns the dimensions of the shipped checkpoint:
// 24 kHz output, hop length 600 (40 frames per second).
func DefaultConfig() Config {
	return Config{
		VocabSize:       47,
		BertDim:         256,
		BertLayers:      4,
		BertHeads:       4,
		BertFFDim:       1024,
		MaxPositions:    512,
		HiddenDim:       512,
		StyleDim:        128,
		DurationBins:    50,
		DecoderChannels: []int64{256, 128, 64, 32, 32},
		Upsample:        []int64{5, 4, 5, 6},
		SampleRate:      24000,
	}
}

// HopLength is the number of output samples one acoustic frame expands to.
func (c Config) HopLength() int {
	hop := 1
	for _, u := range c.Upsample {
		hop *= int(u)
	}

	return hop
}

func (c Config) validate() error {
	if c.VocabSize < 1 {
		return fmt.Errorf("model: vocab size must be >= 1, got %d", c.VocabSize)
	}

	if c.BertDim < 1 || c.BertHeads < 1 || c.BertDim%c.BertHeads != 0 {
		return fmt.Errorf("model: bert dim %d must be a positive multiple of heads %d", c.BertDim, c.BertHeads)
	}

	if c.HiddenDim < 2 || c.HiddenDim%2 != 0 {
		return fmt.Errorf("model: hidden dim must be a positive even number, got %d", c.HiddenDim)
	}

	if c.DurationBins < 1 {
		return fmt.Errorf("model: duration bins must be >= 1, got %d", c.DurationBins)
	}

	if len(c.DecoderChannels) != len(c.Upsample)+1 {
		return fmt.Errorf("model: decoder needs %d channel entries for %d upsample stages, got %d",
			len(c.Upsample)+1, len(c.Upsample), len(c.DecoderChannels))
	}

	for _, u := range c.Upsample {
		if u < 1 {
			return fmt.Errorf("model: upsample factors must be >= 1, got %v", c.Upsample)
		}
	}

	if c.SampleRate < 1 {
		return fmt.Errorf("model: sample rate must be >= 1, got %d", c.SampleRate)
	}

	return nil
}
