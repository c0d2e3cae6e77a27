package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EXAMREVIEW_QUESTIONS_PATH.
const EnvPrefix = "EXAMREVIEW"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	QuestionsPath  string        `mapstructure:"questions_path"`  // input question bank CSV
	ExportPath     string        `mapstructure:"export_path"`     // destination of the notes export
	DefaultType    string        `mapstructure:"default_type"`    // question-type filter applied at start
	EssayType      string        `mapstructure:"essay_type"`      // type label of questions without options
	BannerDuration time.Duration `mapstructure:"banner_duration"` // how long notices stay on screen
	JournalDSN     string        `mapstructure:"journal_dsn"`     // SQLite answer journal
	Log            Log           `mapstructure:"log"`             // logging section
}

// Log contains logging parameters.
type Log struct {
	File  string `mapstructure:"file"`  // JSON log destination; empty disables logging
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file. When set it must exist.
	ConfigFile string

	// EnvFile is a dotenv file loaded before reading the environment.
	// A missing file is ignored. Defaults to ".env".
	EnvFile string
}

// Load reads configuration from an optional config file, a .env file and
// EXAMREVIEW_* environment variables, in increasing priority.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("examreview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetDefault("questions_path", "questions_with_answers.csv")
	v.SetDefault("export_path", "exam-notes.csv")
	v.SetDefault("default_type", "選擇題")
	v.SetDefault("essay_type", "申論題")
	v.SetDefault("banner_duration", "2s")
	v.SetDefault("journal_dsn", "file::memory:?cache=shared")
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.BannerDuration <= 0 {
		return nil, fmt.Errorf("banner_duration must be positive, got %s", cfg.BannerDuration)
	}
	return &cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/examreview.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "examreview"), nil
}

// defaultLogFile returns $XDG_STATE_HOME/examreview/examreview.log, or ""
// when no home directory is available.
func defaultLogFile() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "examreview", "examreview.log")
}
