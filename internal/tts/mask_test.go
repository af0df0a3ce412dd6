package tts

import "testing"

func TestValidityMaskAllOnes(t *testing.T) {
	for _, length := range []int{1, 2, 16, 512} {
		mask := ValidityMask(length)
		if len(mask) != length {
			t.Fatalf("len = %d, want %d", len(mask), length)
		}

		for i, v := range mask {
			if v != 1 {
				t.Fatalf("mask[%d] = %d, want 1", i, v)
			}
		}
	}
}

func TestAttentionMaskComplementsValidity(t *testing.T) {
	validity := []int64{1, 1, 0, 1, 0, 0, 1}

	attention := AttentionMask(validity)
	if len(attention) != len(validity) {
		t.Fatalf("len = %d, want %d", len(attention), len(validity))
	}

	for i := range validity {
		if validity[i]+attention[i] != 1 {
			t.Fatalf("position %d: validity %d, attention %d are not complements",
				i, validity[i], attention[i])
		}
	}
}

func TestAttentionMaskAllZerosForFullValidity(t *testing.T) {
	attention := AttentionMask(ValidityMask(12))
	for i, v := range attention {
		if v != 0 {
			t.Fatalf("attention[%d] = %d, want 0", i, v)
		}
	}
}
