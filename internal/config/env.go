package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetPasswordBytes()
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DataDir      string `envconfig:"DATA_DIR" default:"./data"`
	Network      string `envconfig:"NETWORK" default:"mainnet"`
	SendCooldown int    `envconfig:"SEND_COOLDOWN_MINUTES" default:"4"`
	ConfigFile   string `envconfig:"CONFIG_FILE"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile      string `envconfig:"LOG_FILE"`
	LogMaxSizeKB int    `envconfig:"LOG_MAX_SIZE_KB" default:"10240"`
	LogMaxFiles  int    `envconfig:"LOG_MAX_FILES" default:"3"`

	SimSaplingBalance int64  `envconfig:"SIM_SAPLING_BALANCE" default:"0"`
	CoinGeckoURL      string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads the environment without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.Network != "mainnet" && c.Network != "testnet" {
		return nil, fmt.Errorf("NETWORK must be mainnet or testnet, got %q", c.Network)
	}
	if c.SendCooldown < 0 {
		return nil, errors.New("SEND_COOLDOWN_MINUTES cannot be negative")
	}
	if c.SimSaplingBalance < 0 {
		return nil, errors.New("SIM_SAPLING_BALANCE cannot be negative")
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// StandardStorePath is the bolt file with plain preferences.
func (c *Config) StandardStorePath() string {
	return filepath.Join(c.DataDir, "preferences", "standard.db")
}

// EncryptedStorePath is the bolt file backing the encrypted preferences.
func (c *Config) EncryptedStorePath() string {
	return filepath.Join(c.DataDir, "preferences", "encrypted.db")
}

// CrashDir is where crash reports are written.
func (c *Config) CrashDir() string {
	return filepath.Join(c.DataDir, "crashes")
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter wallet password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword reads one hidden line from the terminal.
// Caller must zero the returned slice after use for security.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ForgetPassword zeroes the stored password.
func ForgetPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
