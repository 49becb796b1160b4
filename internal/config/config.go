package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/tracing"
)

// Config is the full advisor configuration.
type Config struct {
	Backend llm.Config     `mapstructure:"backend"`
	Corpus  CorpusConfig   `mapstructure:"corpus"`
	Server  ServerConfig   `mapstructure:"server"`
	Tracing tracing.Config `mapstructure:"tracing"`
	Logging LoggingConfig  `mapstructure:"logging"`
}

// CorpusConfig points at the knowledge corpus file.
type CorpusConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// LoggingConfig selects the log level for the zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the advisor config from CONFIG_PATH (default
// config/advisor.yaml), applying defaults and env overrides. A missing file
// is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/advisor.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:11434/api/generate")
	v.SetDefault("backend.model", "llama3:latest")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("backend.retry_delay", time.Second)
	v.SetDefault("backend.max_predict", 200)
	v.SetDefault("corpus.path", "")
	v.SetDefault("corpus.watch", false)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("logging.level", "info")
}

func applyEnvOverrides(cfg *Config) {
	if u, ok := os.LookupEnv("OLLAMA_URL"); ok {
		cfg.Backend.URL = u
	}
	if m := os.Getenv("ADVISOR_MODEL"); m != "" {
		cfg.Backend.Model = m
	}
	if p := os.Getenv("CORPUS_PATH"); p != "" {
		cfg.Corpus.Path = p
	}
}
