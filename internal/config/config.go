package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is passed explicitly into the processor and analyzer; there is no
// ambient/global configuration state.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file is honored when present). The API key is
// env-only so it never ends up in a config file.
type Config struct {
	FolderPath      string `yaml:"folderPath"`      // directory to organize
	FileMarker      string `yaml:"fileMarker"`      // filename substring filter, e.g. "screenshot"
	ExtensionFilter string `yaml:"extensionFilter"` // extension to match, e.g. "png"

	Model                 string `yaml:"model"`
	Concurrent            int    `yaml:"concurrent"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
	Retries               int    `yaml:"retries"` // retries after the first attempt, ServiceUnavailable only

	LabelMaxWords  int    `yaml:"labelMaxWords"`
	LabelMaxLength int    `yaml:"labelMaxLength"`
	FallbackLabel  string `yaml:"fallbackLabel"`

	APIKey string `yaml:"-"`
}

// NewDefaultConfig creates a config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		FileMarker:            "screenshot",
		ExtensionFilter:       "png",
		Model:                 "gemini-2.0-flash",
		Concurrent:            1,
		RequestTimeoutSeconds: 60,
		Retries:               2,
		LabelMaxWords:         8,
		LabelMaxLength:        64,
		FallbackLabel:         "screenshot",
	}
}

// Load builds the effective config. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FOLDER_PATH"); v != "" {
		c.FolderPath = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("FILE_MARKER"); v != "" {
		c.FileMarker = v
	}
	if v := os.Getenv("EXTENSION_FILTER"); v != "" {
		c.ExtensionFilter = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		c.Model = v
	}
	if v, err := strconv.Atoi(os.Getenv("CONCURRENT")); err == nil && v > 0 {
		c.Concurrent = v
	}
}

// Validate enforces the fatal preconditions: the batch must not start without
// a folder and a credential.
func (c *Config) Validate() error {
	if c.FolderPath == "" {
		return fmt.Errorf("folder path cannot be empty")
	}
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY cannot be empty")
	}
	if c.ExtensionFilter == "" {
		return fmt.Errorf("extension filter cannot be empty")
	}
	if c.Concurrent < 1 {
		return fmt.Errorf("concurrent must be at least 1")
	}
	if c.LabelMaxWords < 1 || c.LabelMaxLength < 1 {
		return fmt.Errorf("label limits must be at least 1")
	}
	return nil
}
