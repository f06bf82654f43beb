package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/agusespa/javatutor/internal/llm"
	"github.com/agusespa/javatutor/internal/types"
)

const (
	DefaultProvider      = "openai"
	DefaultModel         = "moonshot-v1-8k"
	DefaultOpenAIBaseURL = "https://api.moonshot.cn/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultAPIKeyEnv     = "MOONSHOT_API_KEY"
	DefaultEnvFile       = ".env"
	DefaultMaxAttempts   = 3
	DefaultTimeout       = 2 * time.Minute
)

// ErrMissingCredential means the provider needs an API key and none was found.
var ErrMissingCredential = errors.New("missing API credential")

type Config struct {
	LLM   LLMConfig   `json:"llm" toml:"llm"`
	Check CheckConfig `json:"check" toml:"check"`
}

type LLMConfig struct {
	Provider  string   `json:"provider" toml:"provider"`
	Model     string   `json:"model" toml:"model"`
	BaseURL   string   `json:"base_url" toml:"base_url"`
	APIKeyEnv string   `json:"api_key_env" toml:"api_key_env"`
	EnvFile   string   `json:"env_file" toml:"env_file"`
	Timeout   Duration `json:"timeout" toml:"timeout"`
}

type CheckConfig struct {
	Variant     string `json:"variant" toml:"variant"`
	Prompt      string `json:"prompt,omitempty" toml:"prompt"`
	MaxAttempts int    `json:"max_attempts" toml:"max_attempts"`
}

// Duration reads "90s" / "2m" style strings from JSON and TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Defaults() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a .json or .toml file. Keys the file leaves out take their
// defaults; unknown keys are an error.
func LoadConfig(filename string) (*Config, error) {
	var config Config

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		meta, err := toml.DecodeFile(filename, &config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config file: unknown key %q", undecoded[0].String())
		}
	default:
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.BaseURL == "" {
		if c.LLM.Provider == string(llm.ProviderOllama) {
			c.LLM.BaseURL = DefaultOllamaBaseURL
		} else {
			c.LLM.BaseURL = DefaultOpenAIBaseURL
		}
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.LLM.EnvFile == "" {
		c.LLM.EnvFile = DefaultEnvFile
	}
	if c.LLM.Timeout.Duration == 0 {
		c.LLM.Timeout.Duration = DefaultTimeout
	}
	if c.Check.Variant == "" {
		c.Check.Variant = string(types.VariantJava)
	}
	if c.Check.MaxAttempts == 0 {
		c.Check.MaxAttempts = DefaultMaxAttempts
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(llm.SupportedProviders, c.LLM.Provider) {
		return fmt.Errorf("unsupported provider type: %s (supported: %v)", c.LLM.Provider, llm.SupportedProviders)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.Check.Variant != "auto" {
		if _, err := types.ParseVariant(c.Check.Variant); err != nil {
			return err
		}
	}
	if c.Check.MaxAttempts < 1 {
		return fmt.Errorf("check.max_attempts must be at least 1, got %d", c.Check.MaxAttempts)
	}
	if c.LLM.Timeout.Duration < 0 {
		return fmt.Errorf("llm.timeout must not be negative, got %s", c.LLM.Timeout)
	}
	return nil
}

// NeedsCredential reports whether the configured provider requires an API key.
func (c *Config) NeedsCredential() bool {
	return c.LLM.Provider != string(llm.ProviderOllama)
}

// ResolveAPIKey reads the key from the environment after loading the env
// file, if one exists. Variables already set in the environment win.
func (c *Config) ResolveAPIKey() (string, error) {
	if !c.NeedsCredential() {
		return "", nil
	}

	if c.LLM.EnvFile != "" {
		if err := godotenv.Load(c.LLM.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to load env file %s: %w", c.LLM.EnvFile, err)
		}
	}

	key := strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%w: set %s in the environment or in %s", ErrMissingCredential, c.LLM.APIKeyEnv, c.LLM.EnvFile)
	}
	return key, nil
}

// ProviderConfig builds the llm factory input from c and the resolved key.
func (c *Config) ProviderConfig(apiKey string) llm.ProviderConfig {
	return llm.ProviderConfig{
		Type:    llm.ProviderType(c.LLM.Provider),
		Model:   c.LLM.Model,
		BaseURL: c.LLM.BaseURL,
		APIKey:  apiKey,
		Timeout: c.LLM.Timeout.Duration,
	}
}
