package audio

import "math"

// Hook is a post-processing stage applied to synthesized samples.
type Hook func(samples []float32) []float32

// ApplyHooks runs the hooks in order over the samples.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// PeakNormalize scales samples in place so the peak amplitude reaches the
// given target. Silent input is returned unchanged.
func PeakNormalize(samples []float32, target float32) []float32 {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}

	if peak == 0 || target <= 0 {
		return samples
	}

	gain := target / peak
	for i := range samples {
		samples[i] *= gain
	}

	return samples
}

// DCBlock removes DC offset with a single-pole high-pass filter
// (y[n] = x[n] - x[n-1] + R*y[n-1], R chosen for a ~20 Hz corner).
func DCBlock(samples []float32, sampleRate int) []float32 {
	if sampleRate < 1 || len(samples) == 0 {
		return samples
	}

	r := float32(1.0 - 2.0*math.Pi*20.0/float64(sampleRate))

	var prevIn, prevOut float32
	for i, s := range samples {
		out := s - prevIn + r*prevOut
		prevIn = s
		prevOut = out
		samples[i] = out
	}

	return samples
}

// FadeIn applies a linear ramp from silence over the given duration.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeSamples(sampleRate, ms, len(samples))
	for i := range n {
		samples[i] *= float32(i) / float32(n)
	}

	return samples
}

// FadeOut applies a linear ramp to silence over the given duration.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeSamples(sampleRate, ms, len(samples))
	start := len(samples) - n
	for i := range n {
		samples[start+i] *= float32(n-1-i) / float32(n)
	}

	return samples
}

func fadeSamples(sampleRate int, ms float64, length int) int {
	if sampleRate < 1 || ms <= 0 {
		return 0
	}

	n := int(float64(sampleRate) * ms / 1000.0)
	if n > length {
		n = length
	}

	return n
}
