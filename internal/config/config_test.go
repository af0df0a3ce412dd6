package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type flagHolder struct {
	fs *pflag.FlagSet
}

func (h flagHolder) Flags() *pflag.FlagSet { return h.fs }

func newFlagHolder(t *testing.T) flagHolder {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())

	return flagHolder{fs: fs}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Paths.ModelPath != "models/model.safetensors" {
		t.Fatalf("model path = %q", cfg.Paths.ModelPath)
	}
	if cfg.TTS.Language != "en-us" || cfg.TTS.Speed != 1.0 || cfg.TTS.G2PBackend != "rule" {
		t.Fatalf("tts defaults = %+v", cfg.TTS)
	}
	if cfg.Server.ListenAddr != ":8080" || cfg.Server.Workers != 2 {
		t.Fatalf("server defaults = %+v", cfg.Server)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Fatalf("request timeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("KOKOROTTS_TTS_VOICE", "nova")
	t.Setenv("KOKOROTTS_TTS_SPEED", "1.5")
	t.Setenv("KOKOROTTS_SERVER_LISTEN_ADDR", ":9999")
	t.Setenv("KOKOROTTS_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.TTS.Voice != "nova" {
		t.Fatalf("voice = %q, want nova", cfg.TTS.Voice)
	}
	if cfg.TTS.Speed != 1.5 {
		t.Fatalf("speed = %g, want 1.5", cfg.TTS.Speed)
	}
	if cfg.Server.ListenAddr != ":9999" {
		t.Fatalf("listen addr = %q, want :9999", cfg.Server.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("KOKOROTTS_TTS_VOICE", "from-env")

	holder := newFlagHolder(t)
	if err := holder.fs.Set("tts-voice", "from-flag"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := holder.fs.Set("server-workers", "8"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: holder, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.TTS.Voice != "from-flag" {
		t.Fatalf("voice = %q, want flag to win over env", cfg.TTS.Voice)
	}
	if cfg.Server.Workers != 8 {
		t.Fatalf("workers = %d, want 8", cfg.Server.Workers)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kokorotts.yaml")

	content := `
paths:
  model_path: /data/model.safetensors
tts:
  voice: atlas
  speed: 0.8
server:
  request_timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Paths.ModelPath != "/data/model.safetensors" {
		t.Fatalf("model path = %q", cfg.Paths.ModelPath)
	}
	if cfg.TTS.Voice != "atlas" || cfg.TTS.Speed != 0.8 {
		t.Fatalf("tts = %+v", cfg.TTS)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Fatalf("request timeout = %v", cfg.Server.RequestTimeout)
	}

	// Settings the file omits keep their defaults.
	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q, want default", cfg.Server.ListenAddr)
	}
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "absent.yaml"),
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestNormalizeG2PBackend(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: G2PBackendRule},
		{raw: "rule", want: G2PBackendRule},
		{raw: "command", want: G2PBackendCommand},
		{raw: "espeak", want: G2PBackendCommand},
		{raw: "external", want: G2PBackendCommand},
		{raw: " Command ", want: G2PBackendCommand},
		{raw: "neural", wantErr: true},
	}

	for _, tc := range cases {
		got, err := NormalizeG2PBackend(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("normalize(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalize(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
