package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var text string
	var out string
	var voice string
	var lang string
	var speed float64
	var timestamps bool
	var timestampsOut string
	var normalize bool
	var dcBlock bool
	var fadeInMS float64
	var fadeOutMS float64

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize text to WAV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			inputText, err := readSynthText(text, os.Stdin)
			if err != nil {
				return err
			}

			selectedVoice := cfg.TTS.Voice
			if voice != "" {
				selectedVoice = voice
			}

			selectedLang := cfg.TTS.Language
			if lang != "" {
				selectedLang = lang
			}

			selectedSpeed := cfg.TTS.Speed
			if cmd.Flags().Changed("speed") {
				selectedSpeed = speed
			}

			engine, _, closeModel, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeModel() }()

			result, err := engine.Generate(selectedVoice, selectedLang, inputText, tts.GenerateOptions{
				Speed:             selectedSpeed,
				IncludeTimestamps: timestamps || timestampsOut != "",
			})
			if err != nil {
				return err
			}

			samples := result.Samples
			if normalize {
				samples = audio.PeakNormalize(samples, 0.95)
			}
			if dcBlock {
				samples = audio.DCBlock(samples, result.SampleRate)
			}
			if fadeInMS > 0 {
				samples = audio.FadeIn(samples, result.SampleRate, fadeInMS)
			}
			if fadeOutMS > 0 {
				samples = audio.FadeOut(samples, result.SampleRate, fadeOutMS)
			}

			wav, err := audio.EncodeWAV(samples, result.SampleRate)
			if err != nil {
				return err
			}

			if timestampsOut != "" {
				if err := writeTimestamps(timestampsOut, result, os.Stdout); err != nil {
					return err
				}
			} else if timestamps {
				for _, tok := range result.Tokens {
					fmt.Fprintf(cmd.OutOrStdout(), "%8.3f %8.3f  %s\n", tok.StartSec, tok.EndSec, tok.Text)
				}
			}

			return writeSynthOutput(out, wav, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to synthesize (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "out.wav", "Output WAV path ('-' for stdout)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name (overrides config)")
	cmd.Flags().StringVar(&lang, "lang", "", "Front-end language tag (overrides config)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speaking speed multiplier")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Print word timestamps to stdout")
	cmd.Flags().StringVar(&timestampsOut, "timestamps-out", "", "Write word timestamps as JSON to this path ('-' for stdout)")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Peak-normalize output audio")
	cmd.Flags().BoolVar(&dcBlock, "dc-block", false, "Apply DC-block high-pass filter")
	cmd.Flags().Float64Var(&fadeInMS, "fade-in-ms", 0, "Apply linear fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&fadeOutMS, "fade-out-ms", 0, "Apply linear fade-out duration in milliseconds")

	return cmd
}

// readSynthText returns the flag text, or reads all of stdin when empty.
func readSynthText(flagText string, stdin io.Reader) (string, error) {
	if flagText != "" {
		return flagText, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no input text: pass --text or pipe text on stdin")
	}

	return text, nil
}

func writeTimestamps(path string, result *tts.Result, stdout io.Writer) error {
	payload, err := json.MarshalIndent(result.Tokens, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if path == "-" {
		_, err = stdout.Write(payload)
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}

func writeSynthOutput(path string, wav []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(wav)
		return err
	}

	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
