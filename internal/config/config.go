package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Quiz struct {
		QuestionTime string `yaml:"question_time"`
		BankTTL      string `yaml:"bank_ttl"`
	} `yaml:"quiz"`
	Log struct {
		Path  string `yaml:"path"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	cfg := Config{}
	cfg.Storage.Path = "knowledge_tests.db"
	cfg.Log.Path = "logs/quiz.log"
	return cfg
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
