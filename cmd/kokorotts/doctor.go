package main

import (
	"fmt"
	"os/exec"

	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/doctor"
	"github.com/example/go-kokoro-tts/internal/safetensors"
	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment can run synthesis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			backend, err := config.NormalizeG2PBackend(cfg.TTS.G2PBackend)
			if err != nil {
				return err
			}

			res := doctor.Run(doctor.Config{
				ModelCheck:      modelCheck(cfg.Paths.ModelPath),
				VoicesCheck:     voicesCheck(cfg.Paths.VoicesDir),
				PhonemizerCheck: phonemizerCheck(cfg.TTS.PhonemizerCmd),
				SkipPhonemizer:  backend != config.G2PBackendCommand,
			}, cmd.OutOrStdout())

			if res.Failed() {
				return fmt.Errorf("%d check(s) failed", len(res.Failures()))
			}

			return nil
		},
	}

	return cmd
}

func modelCheck(path string) doctor.CheckFunc {
	return func() (string, error) {
		store, err := safetensors.OpenStore(path)
		if err != nil {
			return "", err
		}
		defer store.Close()

		return fmt.Sprintf("%s (%d tensors)", path, len(store.Names())), nil
	}
}

func voicesCheck(dir string) doctor.CheckFunc {
	return func() (string, error) {
		voices, err := tts.NewVoiceManager(dir).List()
		if err != nil {
			return "", err
		}

		if len(voices) == 0 {
			return "", fmt.Errorf("no voices found in %s", dir)
		}

		return fmt.Sprintf("%d voice(s) in %s", len(voices), dir), nil
	}
}

func phonemizerCheck(cmdName string) doctor.CheckFunc {
	return func() (string, error) {
		if cmdName == "" {
			cmdName = "espeak-ng"
		}

		path, err := exec.LookPath(cmdName)
		if err != nil {
			return "", err
		}

		return path, nil
	}
}
