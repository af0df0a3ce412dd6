package tts

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/g2p"
)

// assignTimestamps attributes every synthesized frame to a word. The padded
// sequence is sentinel + units + sentinel, where each word contributes
// unitCounts[i] token positions and consecutive words are separated by one
// space token. The leading sentinel's frames fold into the first word, each
// separator's and the trailing sentinel's frames fold into the following
// resp. last word, so the word ranges tile the frame axis with no gaps.
func assignTimestamps(tokens []g2p.Token, unitCounts []int, durations []int64, hop, sampleRate int) error {
	if len(tokens) != len(unitCounts) {
		return fmt.Errorf("tts: %d tokens but %d unit counts", len(tokens), len(unitCounts))
	}

	if len(tokens) == 0 {
		return nil
	}

	positions := 2 // sentinels
	for i, u := range unitCounts {
		if u < 1 {
			return fmt.Errorf("tts: word %d has no token units", i)
		}

		positions += u
		if i > 0 {
			positions++ // separator
		}
	}

	if positions != len(durations) {
		return fmt.Errorf("tts: words cover %d positions but %d durations given", positions, len(durations))
	}

	var total int64
	for _, d := range durations {
		total += d
	}

	// pos walks the padded sequence; frame walks the cumulative durations.
	pos := 1 // skip leading sentinel, its frames stay with word 0
	frame := durations[0]

	var start int64
	for i := range tokens {
		if i > 0 {
			frame += durations[pos] // separator folds into this word
			pos++
		}

		for range unitCounts[i] {
			frame += durations[pos]
			pos++
		}

		end := frame
		if i == 0 {
			start = 0
		}

		if i == len(tokens)-1 {
			end = total // trailing sentinel
		}

		tokens[i].StartFrame = int(start)
		tokens[i].EndFrame = int(end)
		tokens[i].StartSec = frameToSeconds(start, hop, sampleRate)
		tokens[i].EndSec = frameToSeconds(end, hop, sampleRate)

		start = end
	}

	return nil
}

func frameToSeconds(frame int64, hop, sampleRate int) float64 {
	return float64(frame) * float64(hop) / float64(sampleRate)
}
