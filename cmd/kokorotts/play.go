package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/tts"
)

func newPlayCmd() *cobra.Command {
	var text string
	var voice string
	var lang string
	var speed float64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Synthesize text and play it on the default audio device",
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
				Speed: selectedSpeed,
			})
			if err != nil {
				return err
			}

			return playSamples(result.Samples, result.SampleRate)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to synthesize (if empty, read from stdin)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name (overrides config)")
	cmd.Flags().StringVar(&lang, "lang", "", "Front-end language tag (overrides config)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speaking speed multiplier")

	return cmd
}

// playSamples blocks until playback of the full utterance has finished.
func playSamples(samples []float32, sampleRate int) error {
	pcm := audio.PCM16Bytes(samples)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(pcm))
	defer func() { _ = player.Close() }()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return nil
}
