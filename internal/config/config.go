package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// MeetingRules holds the recurrence rules that place the congregation's
// two weekly meetings on the calendar.
type MeetingRules struct {
	Midweek string `yaml:"midweek" validate:"required"`
	Weekend string `yaml:"weekend" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	// DataPath is where the local SQLite store lives.
	DataPath string `yaml:"dataPath" validate:"required"`

	// PostgresDSN enables remote mirroring when set.
	PostgresDSN string `yaml:"postgresDSN,omitempty"`

	// ListenAddr is where the HTTP API binds when serving.
	ListenAddr string `yaml:"listenAddr,omitempty"`

	MeetingRules MeetingRules `yaml:"meetingRules" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration usable without a config file: local
// store next to the working directory, meetings on Thursday and Sunday.
func Default() *Config {
	return &Config{
		DataPath:   "congregation.db",
		ListenAddr: ":8080",
		MeetingRules: MeetingRules{
			Midweek: "FREQ=WEEKLY;BYDAY=TH",
			Weekend: "FREQ=WEEKLY;BYDAY=SU",
		},
	}
}

// Load loads and validates the configuration from congregation_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks the meeting
// rule rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.MeetingRules.Midweek); err != nil {
		return fmt.Errorf("invalid rrule in meetingRules.midweek: %w", err)
	}
	if _, err := rrule.StrToRRule(cfg.MeetingRules.Weekend); err != nil {
		return fmt.Errorf("invalid rrule in meetingRules.weekend: %w", err)
	}

	return nil
}

// findConfigFile searches for congregation_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "congregation_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
