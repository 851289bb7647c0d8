package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

const envPrefix = "PONTAJ_"

type Config struct {
	Data     DataConfig     `toml:"data"`
	Overtime OvertimeConfig `toml:"overtime"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`
}

type DataConfig struct {
	Dir     string `toml:"dir"`
	History string `toml:"history"` // SQLite file; empty means <config dir>/history.db
}

type OvertimeConfig struct {
	Threshold float64 `toml:"threshold"`
	Rate      float64 `toml:"rate"`
}

type OutputConfig struct {
	Hours string `toml:"hours"` // "decimal" or "hours-minutes"
	Dates string `toml:"dates"` // "dmy" or "iso"
	Color string `toml:"color"` // "auto", "always" or "never"
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir: "data",
		},
		Overtime: OvertimeConfig{
			Threshold: timesheet.DefaultOvertimeThreshold,
			Rate:      timesheet.DefaultOvertimeRate,
		},
		Output: OutputConfig{
			Hours: "decimal",
			Dates: "dmy",
			Color: "auto",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Policy returns the configured overtime policy.
func (c Config) Policy() timesheet.Policy {
	return timesheet.Policy{Threshold: c.Overtime.Threshold, Rate: c.Overtime.Rate}
}

// HistoryPath resolves the history database location.
func (c Config) HistoryPath() (string, error) {
	if c.Data.History != "" {
		return c.Data.History, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogLevel maps the configured level name to a slog level. Unknown names
// fall back to warn.
func (c Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func ConfigDir() (string, error) {
	if dir := os.Getenv(envPrefix + "CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pontaj"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, then .env files from the working and config
// directories, then PONTAJ_* variables.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if err := loadDotenv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults and applies env
// overrides. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("invalid [overtime] config: %w", err)
	}
	return &cfg, nil
}

// loadDotenv loads the given .env files that exist. Variables already set in
// the environment win.
func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv(envPrefix + "HISTORY"); v != "" {
		cfg.Data.History = v
	}
	if v := os.Getenv(envPrefix + "OVERTIME_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sOVERTIME_THRESHOLD: %w", envPrefix, err)
		}
		cfg.Overtime.Threshold = f
	}
	if v := os.Getenv(envPrefix + "OVERTIME_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sOVERTIME_RATE: %w", envPrefix, err)
		}
		cfg.Overtime.Rate = f
	}
	if v := os.Getenv(envPrefix + "HOURS_FORMAT"); v != "" {
		cfg.Output.Hours = v
	}
	if v := os.Getenv(envPrefix + "DATE_FORMAT"); v != "" {
		cfg.Output.Dates = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Output.Color = "never"
	}
	return nil
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault writes a commented default config to path unless a file is
// already there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	cfg := DefaultConfig()
	data := fmt.Sprintf(`[data]
# directory holding pontaj_<worker>.json records
dir = %q
# history database; empty uses history.db next to this file
history = ""

[overtime]
threshold = %.2f
rate = %.2f

[output]
# decimal | hours-minutes
hours = %q
# dmy | iso
dates = %q
# auto | always | never
color = %q

[log]
level = %q
`,
		cfg.Data.Dir,
		cfg.Overtime.Threshold,
		cfg.Overtime.Rate,
		cfg.Output.Hours,
		cfg.Output.Dates,
		cfg.Output.Color,
		cfg.Log.Level,
	)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
