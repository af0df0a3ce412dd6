// Package config loads the layered application configuration: defaults,
// optional config file, KOKOROTTS_* environment variables, and CLI flags,
// in ascending priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig  `mapstructure:"paths"`
	TTS      TTSConfig    `mapstructure:"tts"`
	Server   ServerConfig `mapstructure:"server"`
	LogLevel string       `mapstructure:"log_level"`
}

type PathsConfig struct {
	ModelPath string `mapstructure:"model_path"`
	VoicesDir string `mapstructure:"voices_dir"`
}

type TTSConfig struct {
	Voice         string  `mapstructure:"voice"`
	Language      string  `mapstructure:"language"`
	Speed         float64 `mapstructure:"speed"`
	G2PBackend    string  `mapstructure:"g2p_backend"`
	PhonemizerCmd string  `mapstructure:"phonemizer_cmd"`
}

type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	MaxTextBytes   int           `mapstructure:"max_text_bytes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Workers        int           `mapstructure:"workers"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			ModelPath: "models/model.safetensors",
			VoicesDir: "voices",
		},
		TTS: TTSConfig{
			Voice:         "",
			Language:      "en-us",
			Speed:         1.0,
			G2PBackend:    "rule",
			PhonemizerCmd: "",
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			MaxTextBytes:   8192,
			RequestTimeout: 60 * time.Second,
			Workers:        2,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-model-path", defaults.Paths.ModelPath, "Path to model checkpoint (.safetensors)")
	fs.String("paths-voices-dir", defaults.Paths.VoicesDir, "Directory holding voice style packs")
	fs.String("tts-voice", defaults.TTS.Voice, "Voice name")
	fs.String("tts-language", defaults.TTS.Language, "Front-end language tag")
	fs.Float64("tts-speed", defaults.TTS.Speed, "Speaking speed multiplier")
	fs.String("tts-g2p-backend", defaults.TTS.G2PBackend, "Phonemization backend (rule|command)")
	fs.String("tts-phonemizer-cmd", defaults.TTS.PhonemizerCmd, "External phonemizer executable (command backend)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum accepted text size per request")
	fs.Duration("server-request-timeout", defaults.Server.RequestTimeout, "Per-request synthesis timeout")
	fs.Int("server-workers", defaults.Server.Workers, "Concurrent synthesis worker limit")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("KOKOROTTS")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("kokorotts")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.model_path", c.Paths.ModelPath)
	v.SetDefault("paths.voices_dir", c.Paths.VoicesDir)
	v.SetDefault("tts.voice", c.TTS.Voice)
	v.SetDefault("tts.language", c.TTS.Language)
	v.SetDefault("tts.speed", c.TTS.Speed)
	v.SetDefault("tts.g2p_backend", c.TTS.G2PBackend)
	v.SetDefault("tts.phonemizer_cmd", c.TTS.PhonemizerCmd)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("paths.model_path", "paths-model-path")
	v.RegisterAlias("paths.voices_dir", "paths-voices-dir")
	v.RegisterAlias("tts.voice", "tts-voice")
	v.RegisterAlias("tts.language", "tts-language")
	v.RegisterAlias("tts.speed", "tts-speed")
	v.RegisterAlias("tts.g2p_backend", "tts-g2p-backend")
	v.RegisterAlias("tts.phonemizer_cmd", "tts-phonemizer-cmd")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.request_timeout", "server-request-timeout")
	v.RegisterAlias("server.workers", "server-workers")
	v.RegisterAlias("log_level", "log-level")
}
