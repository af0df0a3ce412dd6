package config

import (
	"fmt"
	"strings"
)

const (
	G2PBackendRule    = "rule"
	G2PBackendCommand = "command"
)

// NormalizeG2PBackend canonicalizes the phonemization backend name. An empty
// value selects the built-in rule backend.
func NormalizeG2PBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = G2PBackendRule
	}
	switch backend {
	case G2PBackendRule, G2PBackendCommand:
		return backend, nil
	case "espeak", "external":
		return G2PBackendCommand, nil
	default:
		return "", fmt.Errorf(
			"invalid g2p backend %q (expected %s|%s)",
			raw,
			G2PBackendRule,
			G2PBackendCommand,
		)
	}
}
