package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Account holds the IMAP server settings for one mail platform. The
// password is kept in the system keyring, never in the config file.
type Account struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	User string `mapstructure:"user" yaml:"user"`
	TLS  bool   `mapstructure:"tls" yaml:"tls"`

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Addr returns host:port.
func (a Account) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// FetchConfig holds the defaults used when fetching messages.
type FetchConfig struct {
	// Criteria is an IMAP search keyword such as UNSEEN or ALL.
	Criteria string `mapstructure:"criteria" yaml:"criteria"`
	Number   int    `mapstructure:"number" yaml:"number"`
	MarkSeen bool   `mapstructure:"mark_seen" yaml:"mark_seen"`

	// Since restricts the search to messages on or after this date
	// (YYYY-MM-DD). Empty means no restriction.
	Since string `mapstructure:"since" yaml:"since"`
}

// SinceTime parses Since. The zero time is returned when Since is empty.
func (f FetchConfig) SinceTime() (time.Time, error) {
	if f.Since == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, f.Since)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing since date %q: %w", f.Since, err)
	}
	return t, nil
}

// DateLayout is the format of FetchConfig.Since.
const DateLayout = "2006-01-02"

// WatchConfig controls background polling.
type WatchConfig struct {
	// IntervalMin is the polling period in minutes. WatchDisabled turns
	// polling off.
	IntervalMin int `mapstructure:"interval_min" yaml:"interval_min"`
}

// WatchDisabled is the IntervalMin value that stops polling.
const WatchDisabled = -1

// Interval returns the polling period, or 0 when polling is disabled.
func (w WatchConfig) Interval() time.Duration {
	if w.IntervalMin <= 0 {
		return 0
	}
	return time.Duration(w.IntervalMin) * time.Minute
}

// DecodeConfig tunes body decoding.
type DecodeConfig struct {
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
}

// LogConfig selects the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the top-level application configuration.
type Config struct {
	Accounts map[string]Account `mapstructure:"accounts" yaml:"accounts"`
	Fetch    FetchConfig        `mapstructure:"fetch" yaml:"fetch"`
	Watch    WatchConfig        `mapstructure:"watch" yaml:"watch"`
	Decode   DecodeConfig       `mapstructure:"decode" yaml:"decode"`
	Log      LogConfig          `mapstructure:"log" yaml:"log"`
	DBPath   string             `mapstructure:"db_path" yaml:"db_path"`
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/mailback/config.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailback")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Accounts: map[string]Account{
			"google": {Host: "imap.gmail.com", Port: 993, TLS: true},
			"qq":     {Host: "imap.qq.com", Port: 993, TLS: true},
		},
		Fetch: FetchConfig{
			Criteria: "UNSEEN",
			Number:   3,
		},
		Watch:  WatchConfig{IntervalMin: 5},
		Decode: DecodeConfig{MaxDepth: 20},
		Log:    LogConfig{Level: "info"},
		DBPath: filepath.Join(configDir(), "mailback.db"),
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("fetch.criteria", def.Fetch.Criteria)
	v.SetDefault("fetch.number", def.Fetch.Number)
	v.SetDefault("watch.interval_min", def.Watch.IntervalMin)
	v.SetDefault("decode.max_depth", def.Decode.MaxDepth)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("db_path", def.DBPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Accounts = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Accounts == nil {
		cfg.Accounts = map[string]Account{}
	}

	for name, acc := range cfg.Accounts {
		if acc.Port == 0 {
			acc.Port = 993
		}
		if !v.IsSet("accounts." + name + ".tls") {
			acc.TLS = true
		}
		cfg.Accounts[name] = acc
	}

	return cfg, nil
}

// Save writes cfg to a YAML file at path, creating parent directories
// if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("accounts", cfg.Accounts)
	v.Set("fetch", cfg.Fetch)
	v.Set("watch", cfg.Watch)
	v.Set("decode", cfg.Decode)
	v.Set("log", cfg.Log)
	v.Set("db_path", cfg.DBPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// Account returns the account registered under name (case-insensitive).
func (c *Config) Account(name string) (Account, bool) {
	acc, ok := c.Accounts[strings.ToLower(name)]
	return acc, ok
}

// AddAccount registers or replaces an account. Zero-valued fields of acc
// are filled from any existing entry, then from the defaults.
func (c *Config) AddAccount(name string, acc Account) {
	name = strings.ToLower(name)
	if c.Accounts == nil {
		c.Accounts = map[string]Account{}
	}

	prev, ok := c.Accounts[name]
	if !ok {
		prev = Default().Accounts[name]
	}
	if acc.Host == "" {
		acc.Host = prev.Host
	}
	if acc.Port == 0 {
		acc.Port = prev.Port
	}
	if acc.Port == 0 {
		acc.Port = 993
	}
	c.Accounts[name] = acc
}

// RemoveAccount deletes the named account and reports whether it existed.
func (c *Config) RemoveAccount(name string) bool {
	name = strings.ToLower(name)
	if _, ok := c.Accounts[name]; !ok {
		return false
	}
	delete(c.Accounts, name)
	return true
}

// AccountNames returns the configured account names in sorted order.
func (c *Config) AccountNames() []string {
	names := make([]string, 0, len(c.Accounts))
	for name := range c.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
