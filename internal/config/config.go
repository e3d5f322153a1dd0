package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Convert   ConvertConfig `mapstructure:"convert"`
	Tables    TablesConfig  `mapstructure:"tables"`
	Lexicon   LexiconConfig `mapstructure:"lexicon"`
	Server    ServerConfig  `mapstructure:"server"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

type ConvertConfig struct {
	// Language is the ISO 639-3 code used when a command does not name one.
	Language  string `mapstructure:"language"`
	Reduction string `mapstructure:"reduction"`
	Strict    bool   `mapstructure:"strict"`
}

type TablesConfig struct {
	// Dir holds extra table files that override the built-in ones.
	Dir string `mapstructure:"dir"`
}

type LexiconConfig struct {
	Workers int    `mapstructure:"workers"`
	Format  string `mapstructure:"format"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxInputBytes   int    `mapstructure:"max_input_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
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
		Convert: ConvertConfig{
			Language:  "",
			Reduction: "",
			Strict:    false,
		},
		Tables: TablesConfig{
			Dir: "",
		},
		Lexicon: LexiconConfig{
			Workers: 4,
			Format:  "tsv",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         8,
			MaxInputBytes:   16384,
			RequestTimeout:  10,
			ShutdownTimeout: 30,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"language":           "convert.language",
	"reduction":          "convert.reduction",
	"strict":             "convert.strict",
	"tables-dir":         "tables.dir",
	"lexicon-workers":    "lexicon.workers",
	"lexicon-format":     "lexicon.format",
	"server-listen-addr": "server.listen_addr",
	"workers":            "server.workers",
	"max-input-bytes":    "server.max_input_bytes",
	"request-timeout":    "server.request_timeout",
	"shutdown-timeout":   "server.shutdown_timeout",
	"log-level":          "log_level",
	"log-format":         "log_format",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("language", defaults.Convert.Language, "ISO 639-3 language for callhome and disc (e.g. spa, deu)")
	fs.String("reduction", defaults.Convert.Reduction, "Built-in remap dictionary applied to IPA output")
	fs.Bool("strict", defaults.Convert.Strict, "Reject symbols that have no table entry")
	fs.String("tables-dir", defaults.Tables.Dir, "Directory with table files overriding the built-in tables")
	fs.Int("lexicon-workers", defaults.Lexicon.Workers, "Concurrent lexicon conversions")
	fs.String("lexicon-format", defaults.Lexicon.Format, "Lexicon input format (tsv|cmudict)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent conversion requests")
	fs.Int("max-input-bytes", defaults.Server.MaxInputBytes, "Max input size per request in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("log-format", defaults.LogFormat, "Log format (json|text)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("PHONECODES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("phonecodes")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	format, err := NormalizeLogFormat(cfg.LogFormat)
	if err != nil {
		return Config{}, err
	}
	cfg.LogFormat = format

	return cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("convert.language", c.Convert.Language)
	v.SetDefault("convert.reduction", c.Convert.Reduction)
	v.SetDefault("convert.strict", c.Convert.Strict)
	v.SetDefault("tables.dir", c.Tables.Dir)
	v.SetDefault("lexicon.workers", c.Lexicon.Workers)
	v.SetDefault("lexicon.format", c.Lexicon.Format)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_input_bytes", c.Server.MaxInputBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_format", c.LogFormat)
}
