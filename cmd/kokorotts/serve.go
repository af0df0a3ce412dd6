package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/example/go-kokoro-tts/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the synthesis HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			engine, voices, closeModel, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeModel() }()

			synth := &server.EngineSynthesizer{
				Engine:          engine,
				DefaultVoice:    cfg.TTS.Voice,
				DefaultLanguage: cfg.TTS.Language,
				DefaultSpeed:    cfg.TTS.Speed,
			}

			handler := server.NewHandler(synth, voices,
				server.WithMaxTextBytes(cfg.Server.MaxTextBytes),
				server.WithWorkers(cfg.Server.Workers),
				server.WithRequestTimeout(cfg.Server.RequestTimeout),
				server.WithLogger(slog.Default()),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("listening", "addr", cfg.Server.ListenAddr)

			return server.New(cfg.Server.ListenAddr, handler).Start(ctx)
		},
	}

	return cmd
}
