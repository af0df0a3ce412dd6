package tts

import (
	"math"
	"testing"

	"github.com/example/go-kokoro-tts/internal/g2p"
)

func TestAssignTimestampsTilesFrameAxis(t *testing.T) {
	tokens := []g2p.Token{
		{Text: "hello", Phonemes: "hɛloʊ"},
		{Text: "world", Phonemes: "wɝld"},
	}

	// Padded layout: sentinel, 2 units, separator, 3 units, sentinel.
	unitCounts := []int{2, 3}
	durations := []int64{5, 1, 2, 3, 4, 6, 7, 2}

	if err := assignTimestamps(tokens, unitCounts, durations, 600, 24000); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The leading sentinel folds into the first word, the separator and
	// trailing sentinel into the second.
	if tokens[0].StartFrame != 0 || tokens[0].EndFrame != 8 {
		t.Fatalf("word 0 = [%d, %d), want [0, 8)", tokens[0].StartFrame, tokens[0].EndFrame)
	}
	if tokens[1].StartFrame != 8 || tokens[1].EndFrame != 30 {
		t.Fatalf("word 1 = [%d, %d), want [8, 30)", tokens[1].StartFrame, tokens[1].EndFrame)
	}

	// 600 samples per frame at 24 kHz is 25 ms per frame.
	if got := tokens[0].EndSec; math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("word 0 end = %gs, want 0.2s", got)
	}
	if got := tokens[1].EndSec; math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("word 1 end = %gs, want 0.75s", got)
	}
}

func TestAssignTimestampsRangesAreContiguous(t *testing.T) {
	tokens := []g2p.Token{
		{Text: "a", Phonemes: "ə"},
		{Text: "b", Phonemes: "b"},
		{Text: "c", Phonemes: "si"},
	}

	unitCounts := []int{1, 1, 2}
	// sentinel, 1 unit, sep, 1 unit, sep, 2 units, sentinel
	durations := []int64{2, 3, 1, 4, 2, 5, 1, 3}

	if err := assignTimestamps(tokens, unitCounts, durations, 600, 24000); err != nil {
		t.Fatalf("assign: %v", err)
	}

	var total int64
	for _, d := range durations {
		total += d
	}

	if tokens[0].StartFrame != 0 {
		t.Fatalf("first word starts at %d, want 0", tokens[0].StartFrame)
	}
	if got := tokens[len(tokens)-1].EndFrame; got != int(total) {
		t.Fatalf("last word ends at %d, want %d", got, total)
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartFrame != tokens[i-1].EndFrame {
			t.Fatalf("gap between word %d (end %d) and word %d (start %d)",
				i-1, tokens[i-1].EndFrame, i, tokens[i].StartFrame)
		}
	}
}

func TestAssignTimestampsSingleWordCoversEverything(t *testing.T) {
	tokens := []g2p.Token{{Text: "hi", Phonemes: "haɪ"}}

	// sentinel, 2 units, sentinel
	durations := []int64{4, 2, 3, 5}

	if err := assignTimestamps(tokens, []int{2}, durations, 600, 24000); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if tokens[0].StartFrame != 0 || tokens[0].EndFrame != 14 {
		t.Fatalf("word = [%d, %d), want [0, 14)", tokens[0].StartFrame, tokens[0].EndFrame)
	}
}

func TestAssignTimestampsValidatesCounts(t *testing.T) {
	tokens := []g2p.Token{{Text: "a", Phonemes: "ə"}}

	if err := assignTimestamps(tokens, []int{1, 1}, []int64{1, 1, 1}, 600, 24000); err == nil {
		t.Fatal("expected error for token/unit-count mismatch")
	}

	if err := assignTimestamps(tokens, []int{0}, []int64{1, 1}, 600, 24000); err == nil {
		t.Fatal("expected error for word with zero units")
	}

	// One word with one unit needs exactly 3 padded positions.
	if err := assignTimestamps(tokens, []int{1}, []int64{1, 1}, 600, 24000); err == nil {
		t.Fatal("expected error for duration count mismatch")
	}
}

func TestAssignTimestampsEmptyIsNoop(t *testing.T) {
	if err := assignTimestamps(nil, nil, nil, 600, 24000); err != nil {
		t.Fatalf("assign: %v", err)
	}
}
