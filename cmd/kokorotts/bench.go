package main

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/bench"
	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var text string
	var voice string
	var runs int
	var rtfThreshold float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark synthesis speed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			selectedVoice := cfg.TTS.Voice
			if voice != "" {
				selectedVoice = voice
			}

			engine, _, closeModel, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeModel() }()

			results, stats, err := bench.Run(func() (*tts.Result, error) {
				return engine.Generate(selectedVoice, cfg.TTS.Language, text, tts.GenerateOptions{
					Speed: cfg.TTS.Speed,
				})
			}, runs)
			if err != nil {
				return err
			}

			if jsonOut {
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			} else {
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			if err := bench.CheckRTFThreshold(bench.MeanRTF(results), rtfThreshold); err != nil {
				return fmt.Errorf("bench gate: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "The quick brown fox jumps over the lazy dog.", "Benchmark text")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name (overrides config)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of synthesis runs")
	cmd.Flags().Float64Var(&rtfThreshold, "rtf-threshold", 0, "Fail when mean RTF exceeds this value (0 disables)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")

	return cmd
}
