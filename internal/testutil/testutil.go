// Package testutil provides shared skip helpers and WAV assertions for
// integration tests.
//
// Each skip helper calls t.Skip with a clear human-readable reason when the
// named prerequisite is absent, so integration tests remain runnable in
// partial environments without failing noisily.
package testutil

import (
	"os"
	"os/exec"
	"testing"

	"github.com/example/go-kokoro-tts/internal/tts"
)

// RequirePhonemizer skips the test if the external phonemizer binary is not
// found in PATH or the path given by KOKOROTTS_TTS_PHONEMIZER_CMD.
func RequirePhonemizer(tb testing.TB) {
	tb.Helper()

	exe := os.Getenv("KOKOROTTS_TTS_PHONEMIZER_CMD")
	if exe == "" {
		exe = "espeak-ng"
	}

	_, err := exec.LookPath(exe)
	if err != nil {
		tb.Skipf("phonemizer binary not available (%q not in PATH); set KOKOROTTS_TTS_PHONEMIZER_CMD to override", exe)
	}
}

// RequireModelFile skips the test if no model checkpoint exists at the path
// given by KOKOROTTS_PATHS_MODEL_PATH.
func RequireModelFile(tb testing.TB) string {
	tb.Helper()

	path := os.Getenv("KOKOROTTS_PATHS_MODEL_PATH")
	if path == "" {
		tb.Skip("model checkpoint not configured; set KOKOROTTS_PATHS_MODEL_PATH")
	}

	if _, err := os.Stat(path); err != nil {
		tb.Skipf("model checkpoint not available at %q: %v", path, err)
	}

	return path
}

// RequireVoice skips the test if the named voice cannot be resolved from the
// voices directory given by KOKOROTTS_PATHS_VOICES_DIR.
func RequireVoice(tb testing.TB, name string) *tts.VoiceProfile {
	tb.Helper()

	dir := os.Getenv("KOKOROTTS_PATHS_VOICES_DIR")
	if dir == "" {
		tb.Skip("voices directory not configured; set KOKOROTTS_PATHS_VOICES_DIR")
	}

	profile, err := tts.NewVoiceManager(dir).Load(name)
	if err != nil {
		tb.Skipf("voice %q not available: %v", name, err)
	}

	return profile
}
