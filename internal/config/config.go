package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a config file is in neither the current nor the home directory
var ErrNotFound = errors.New("not found")

// DefaultDatabaseURLEnv is read when databaseURLEnv is not set
const DefaultDatabaseURLEnv = "ALLOTMENT_DATABASE_URL"

// Source locates one input table: a CSV file, or a tab in a Google spreadsheet
type Source struct {
	File          string `yaml:"file,omitempty" validate:"required_without=SpreadsheetID,excluded_with=SpreadsheetID"`
	SpreadsheetID string `yaml:"spreadsheetID,omitempty" validate:"required_with=Tab"`
	Tab           string `yaml:"tab,omitempty" validate:"required_with=SpreadsheetID"`
}

// IsSheet reports whether the source is a spreadsheet tab
func (s Source) IsSheet() bool {
	return s.SpreadsheetID != ""
}

// String describes the source for logs and run records
func (s Source) String() string {
	if s.IsSheet() {
		return fmt.Sprintf("sheet:%s/%s", s.SpreadsheetID, s.Tab)
	}
	return s.File
}

// Inputs groups the three tables of a run
type Inputs struct {
	Candidates *Source `yaml:"candidates,omitempty"`
	Seats      *Source `yaml:"seats,omitempty"`
	Options    *Source `yaml:"options,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Inputs         Inputs `yaml:"inputs"`
	TieBreak       string `yaml:"tieBreak,omitempty" validate:"omitempty,oneof=input_order roll_number"`
	OutputDir      string `yaml:"outputDir,omitempty"`
	ExtendedExport bool   `yaml:"extendedExport,omitempty"`
	ResultsSheetID string `yaml:"resultsSheetID,omitempty"`
	MetricsFile    string `yaml:"metricsFile,omitempty"`
	DatabaseURLEnv string `yaml:"databaseURLEnv,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from allotment_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "allotment_config.test.yaml" (current directory, then home)
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(envFileName("allotment_config", env, "yaml"))
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

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// LoadDotEnv loads .env.<env> and then .env from the current directory, if present.
// Variables already set in the environment are never overwritten.
func LoadDotEnv(env string) error {
	var files []string
	if env != "" {
		files = append(files, ".env."+env)
	}
	files = append(files, ".env")

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// DatabaseURL returns the connection string named by databaseURLEnv, or "" if unset
func (c *Config) DatabaseURL() string {
	name := c.DatabaseURLEnv
	if name == "" {
		name = DefaultDatabaseURLEnv
	}
	return os.Getenv(name)
}

// envFileName builds "<base>.<ext>", or "<base>.<env>.<ext>" when env is set
func envFileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile looks for fileName in the current directory, then in the user's home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s %w in current directory or home directory", fileName, ErrNotFound)
}
