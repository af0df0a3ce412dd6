package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/g2p"
	"github.com/example/go-kokoro-tts/internal/model"
	"github.com/example/go-kokoro-tts/internal/tokenizer"
	"github.com/example/go-kokoro-tts/internal/tts"
)

// buildEngine assembles the synthesis stack from the loaded configuration.
// The returned closer releases the model checkpoint.
func buildEngine(cfg config.Config) (*tts.Engine, *tts.VoiceManager, func() error, error) {
	backend, err := config.NormalizeG2PBackend(cfg.TTS.G2PBackend)
	if err != nil {
		return nil, nil, nil, err
	}

	proc, err := g2p.New(g2p.Options{
		Backend: backend,
		Command: cfg.TTS.PhonemizerCmd,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	if err := proc.Configure(cfg.TTS.Language); err != nil {
		return nil, nil, nil, fmt.Errorf("configure %q front-end: %w", cfg.TTS.Language, err)
	}

	m, err := model.Load(cfg.Paths.ModelPath)
	if err != nil {
		return nil, nil, nil, err
	}

	voices := tts.NewVoiceManager(cfg.Paths.VoicesDir)
	engine := tts.NewEngine(m, proc, tokenizer.NewPhonemeTokenizer(), voices, slog.Default())

	return engine, voices, m.Close, nil
}
