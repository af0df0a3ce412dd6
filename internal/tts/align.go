package tts

import (
	"fmt"
	"math"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// FrameDurations converts duration bin logits [seq, bins] into whole frame
// counts. Each row's logits pass through a sigmoid and are summed, the sum
// is divided by speed, rounded to the nearest integer, and clamped to at
// least one frame so every token keeps a presence in the output.
func FrameDurations(logits *tensor.Tensor, speed float64) ([]int64, error) {
	if logits == nil || logits.Rank() != 2 {
		return nil, fmt.Errorf("tts: duration logits must be rank 2")
	}

	if speed <= 0 {
		return nil, fmt.Errorf("tts: speed must be positive, got %g", speed)
	}

	shape := logits.Shape()
	seq := int(shape[0])
	bins := int(shape[1])
	data := logits.RawData()

	durations := make([]int64, seq)

	for i := range seq {
		row := data[i*bins : (i+1)*bins]

		var sum float64
		for _, v := range row {
			sum += 1.0 / (1.0 + math.Exp(-float64(v)))
		}

		frames := int64(math.Round(sum / speed))
		if frames < 1 {
			frames = 1
		}

		durations[i] = frames
	}

	return durations, nil
}

// BuildAlignment expands per-token frame counts into a run-length one-hot
// matrix [seq, totalFrames]: row i carries durations[i] consecutive ones
// starting where row i-1 ended. Every frame column therefore sums to exactly
// one, and multiplying [hidden, seq] features by it repeats each token's
// feature vector for the token's duration.
func BuildAlignment(durations []int64) (*tensor.Tensor, error) {
	if len(durations) == 0 {
		return nil, fmt.Errorf("tts: alignment requires at least one token")
	}

	var total int64
	for i, d := range durations {
		if d < 1 {
			return nil, fmt.Errorf("tts: duration at index %d must be >= 1, got %d", i, d)
		}

		total += d
	}

	data := make([]float32, int64(len(durations))*total)

	var offset int64
	for i, d := range durations {
		rowBase := int64(i) * total
		for f := offset; f < offset+d; f++ {
			data[rowBase+f] = 1
		}

		offset += d
	}

	return tensor.New(data, []int64{int64(len(durations)), total})
}

// ExpandToFrames multiplies [dim, seq] features with the [seq, frames]
// alignment, yielding frame-rate features [dim, frames].
func ExpandToFrames(features, alignment *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.MatMul(features, alignment)
}
