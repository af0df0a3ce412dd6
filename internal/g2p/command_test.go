package g2p

import (
	"errors"
	"os"
	"os/exec"
	"testing"
)

// requireEspeak skips when the external phonemizer is not installed. The
// testutil helpers cannot be used here without an import cycle.
func requireEspeak(t *testing.T) string {
	t.Helper()

	exe := os.Getenv("KOKOROTTS_TTS_PHONEMIZER_CMD")
	if exe == "" {
		exe = "espeak-ng"
	}

	if _, err := exec.LookPath(exe); err != nil {
		t.Skipf("phonemizer binary %q not in PATH", exe)
	}

	return exe
}

func TestCommandProcessorRequiresConfigure(t *testing.T) {
	p := NewCommandProcessor("espeak-ng")

	if _, err := p.Process("hello"); !errors.Is(err, ErrProcessorNotInitialized) {
		t.Fatalf("err = %v, want ErrProcessorNotInitialized", err)
	}
}

func TestCommandProcessorPhonemizes(t *testing.T) {
	exe := requireEspeak(t)

	p := NewCommandProcessor(exe)
	if err := p.Configure("en-US"); err != nil {
		t.Fatalf("configure: %v", err)
	}

	phonemes, err := p.Process("hello world")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if phonemes == "" {
		t.Fatal("empty phoneme output")
	}

	joined, tokens, err := p.ProcessWithTokens("hello world")
	if err != nil {
		t.Fatalf("process with tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %d, want 2", len(tokens))
	}
	if joined == "" || tokens[0].Phonemes == "" {
		t.Fatalf("missing phonemes: joined %q, tokens %+v", joined, tokens)
	}
}

func TestCommandProcessorRejectsUnknownLanguage(t *testing.T) {
	exe := requireEspeak(t)

	p := NewCommandProcessor(exe)
	if err := p.Configure("zz-notreal"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("err = %v, want ErrUnsupportedLanguage", err)
	}
}
