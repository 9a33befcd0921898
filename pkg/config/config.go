package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	Wizard WizardConfig `mapstructure:"wizard"`
}

type LLMConfig struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	FastModel string        `mapstructure:"fast_model"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

type WizardConfig struct {
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// providerKeyEnv lists the conventional environment variables per provider,
// checked in order when llm.api_key is not set.
var providerKeyEnv = map[string][]string{
	"gemini": {"GEMINI_API_KEY", "API_KEY"},
	"claude": {"ANTHROPIC_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
}

// Load reads .env, the optional gbp-pulse.yaml file and GBP_* environment
// overrides, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GBP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gbp-pulse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := defaultDataDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = ProviderKey(cfg.LLM.Provider)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ProviderKey returns the API key found in the provider's conventional
// environment variables, or "".
func ProviderKey(provider string) string {
	for _, name := range providerKeyEnv[strings.ToLower(provider)] {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	dataDir := defaultDataDir()

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.fast_model", "")
	v.SetDefault("llm.timeout", 90*time.Second)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", filepath.Join(dataDir, "state.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir, "gbp-pulse.log"))
	v.SetDefault("log.format", "json")
	v.SetDefault("wizard.submit_delay", 2*time.Second)
}

// Validate checks the values that cannot be defaulted.
// A missing API key is not an error here; commands that need the gateway report it.
func (c *Config) Validate() error {
	if _, ok := providerKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("unsupported llm.provider %q (supported: gemini, claude, openai)", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported store.driver %q (supported: sqlite, memory)", c.Store.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	if c.Wizard.SubmitDelay < 0 {
		return fmt.Errorf("wizard.submit_delay must not be negative")
	}
	return nil
}

func loadEnvFile() {
	for _, path := range []string{".env", filepath.Join(defaultDataDir(), ".env")} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gbp-pulse"
	}
	return filepath.Join(home, ".gbp-pulse")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
