package main

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List available voices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			vm := tts.NewVoiceManager(cfg.Paths.VoicesDir)
			voices, err := vm.List()
			if err != nil {
				return err
			}

			if len(voices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no voices found in", cfg.Paths.VoicesDir)
				return nil
			}

			for _, v := range voices {
				if v.Language != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.Name, v.Language)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), v.Name)
				}
			}

			return nil
		},
	}

	return cmd
}
