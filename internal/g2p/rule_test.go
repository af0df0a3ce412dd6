package g2p

import (
	"errors"
	"strings"
	"testing"
)

func newConfiguredRule(t *testing.T) *RuleProcessor {
	t.Helper()

	p := NewRuleProcessor()
	if err := p.Configure("en-US"); err != nil {
		t.Fatalf("configure: %v", err)
	}
	return p
}

func TestConfigureLanguages(t *testing.T) {
	tests := []struct {
		language string
		wantErr  bool
	}{
		{"en", false},
		{"en-US", false},
		{"en-gb", false},
		{"EN", false},
		{"de", true},
		{"fr-FR", true},
		{"english", true},
		{"", true},
	}

	for _, tc := range tests {
		err := NewRuleProcessor().Configure(tc.language)
		if tc.wantErr && !errors.Is(err, ErrUnsupportedLanguage) {
			t.Fatalf("configure(%q) err = %v, want ErrUnsupportedLanguage", tc.language, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("configure(%q): %v", tc.language, err)
		}
	}
}

func TestProcessRequiresConfigure(t *testing.T) {
	p := NewRuleProcessor()
	if _, err := p.Process("hello"); !errors.Is(err, ErrProcessorNotInitialized) {
		t.Fatalf("err = %v, want ErrProcessorNotInitialized", err)
	}
}

func TestProcessUsesLexicon(t *testing.T) {
	p := newConfiguredRule(t)

	got, err := p.Process("hello world")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got != "hɛloʊ wɝld" {
		t.Fatalf("phonemes = %q", got)
	}
}

func TestProcessFallsBackToLetterRules(t *testing.T) {
	p := newConfiguredRule(t)

	// Not a lexicon word; the "ight" rule must fire.
	got, err := p.Process("blight")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(got, "aɪt") {
		t.Fatalf("phonemes = %q, want aɪt from the ight rule", got)
	}
}

func TestProcessKeepsPunctuation(t *testing.T) {
	p := newConfiguredRule(t)

	got, err := p.Process("hello, world!")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got != "hɛloʊ , wɝld !" {
		t.Fatalf("phonemes = %q", got)
	}
}

func TestProcessRejectsEmpty(t *testing.T) {
	p := newConfiguredRule(t)

	if _, err := p.Process("   "); err == nil {
		t.Fatal("expected error for whitespace-only input")
	}
}

func TestProcessWithTokensMatchesPhonemeString(t *testing.T) {
	p := newConfiguredRule(t)

	phonemes, tokens, err := p.ProcessWithTokens("hello big world")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(tokens) != 3 {
		t.Fatalf("len(tokens) = %d, want 3", len(tokens))
	}

	var parts []string
	for _, tok := range tokens {
		if tok.Phonemes == "" {
			t.Fatalf("token %q has no phonemes", tok.Text)
		}
		parts = append(parts, tok.Phonemes)
	}

	if joined := strings.Join(parts, " "); joined != phonemes {
		t.Fatalf("joined tokens %q != phoneme string %q", joined, phonemes)
	}

	if tokens[0].Text != "hello" || tokens[2].Text != "world" {
		t.Fatalf("token texts = %v", []string{tokens[0].Text, tokens[1].Text, tokens[2].Text})
	}
}

func TestProcessExpandsNumbers(t *testing.T) {
	p := newConfiguredRule(t)

	_, tokens, err := p.ProcessWithTokens("3 dogs")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Text != "three" {
		t.Fatalf("tokens = %+v, want three dogs", tokens)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	if _, err := New(Options{}); err != nil {
		t.Fatalf("default backend: %v", err)
	}

	if _, err := New(Options{Backend: BackendRule}); err != nil {
		t.Fatalf("rule backend: %v", err)
	}

	if _, err := New(Options{Backend: BackendCommand, Command: "phonemizer"}); err != nil {
		t.Fatalf("command backend: %v", err)
	}

	if _, err := New(Options{Backend: "neural"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
