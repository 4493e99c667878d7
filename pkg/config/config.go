/*
Package config manages TOML config for the lexdecode search engine.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/lexdecode/lexdecode/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Search SearchConfig `toml:"search"`
	Dict   DictConfig   `toml:"dict"`
	Queue  QueueConfig  `toml:"queue"`
}

// SearchConfig has admissibility-pruning and printing related options.
type SearchConfig struct {
	LowScoreArea   int     `toml:"low_score_area"`
	LowScoreLimit  float64 `toml:"low_score_limit"`
	HighScoreLimit float64 `toml:"high_score_limit"`
	Iterations     int     `toml:"iterations"`
	PrintLevel     int     `toml:"print_level"`
	OddMode        bool    `toml:"odd_mode"`
	CommaAtStart   bool    `toml:"comma_at_start"`
	CommaInside    bool    `toml:"comma_inside"`
	Filler         string  `toml:"filler"`
}

// DictConfig holds dictionary ingestion options.
type DictConfig struct {
	MaxWordsPerBucket int `toml:"max_words_per_bucket"`
}

// QueueConfig holds work-distribution options.
type QueueConfig struct {
	Threads          int `toml:"threads"`
	Depth            int `toml:"depth"`
	MatrixCreatePoint int `toml:"matrix_create_point"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/lexdecode
// 2. ~/Library/Application Support/lexdecode (macOS)
// 3. current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "lexdecode")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "lexdecode")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. custom path from -config
// 2. default path: [UserConfigDir]/lexdecode/config.toml
// 3. builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with the same defaults as the CLI flags of §6.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			LowScoreArea:   16,
			LowScoreLimit:  1.0,
			HighScoreLimit: 1.0,
			Iterations:     1,
			PrintLevel:     1,
			OddMode:        false,
			CommaAtStart:   false,
			CommaInside:    false,
			Filler:         "",
		},
		Dict: DictConfig{
			MaxWordsPerBucket: 100000,
		},
		Queue: QueueConfig{
			Threads:           0,
			Depth:             2,
			MatrixCreatePoint: 20,
		},
	}
}

// InitConfig loads config from file or creates the default file if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to recover whichever sections of a TOML file parse.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if searchSection, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(searchSection, &config.Search)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if queueSection, ok := utils.ExtractSection(tempConfig, "queue"); ok {
		extractQueueConfig(queueSection, &config.Queue)
	}
	return config, nil
}

func extractSearchConfig(data map[string]any, s *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "low_score_area"); ok {
		s.LowScoreArea = val
	}
	if val, ok := utils.ExtractFloat64(data, "low_score_limit"); ok {
		s.LowScoreLimit = val
	}
	if val, ok := utils.ExtractFloat64(data, "high_score_limit"); ok {
		s.HighScoreLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "iterations"); ok {
		s.Iterations = val
	}
	if val, ok := utils.ExtractInt64(data, "print_level"); ok {
		s.PrintLevel = val
	}
	if val, ok := utils.ExtractBool(data, "odd_mode"); ok {
		s.OddMode = val
	}
	if val, ok := utils.ExtractBool(data, "comma_at_start"); ok {
		s.CommaAtStart = val
	}
	if val, ok := utils.ExtractBool(data, "comma_inside"); ok {
		s.CommaInside = val
	}
	if val, ok := utils.ExtractString(data, "filler"); ok {
		s.Filler = val
	}
}

func extractDictConfig(data map[string]any, d *DictConfig) {
	if val, ok := utils.ExtractInt64(data, "max_words_per_bucket"); ok {
		d.MaxWordsPerBucket = val
	}
}

func extractQueueConfig(data map[string]any, q *QueueConfig) {
	if val, ok := utils.ExtractInt64(data, "threads"); ok {
		q.Threads = val
	}
	if val, ok := utils.ExtractInt64(data, "depth"); ok {
		q.Depth = val
	}
	if val, ok := utils.ExtractInt64(data, "matrix_create_point"); ok {
		q.MatrixCreatePoint = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
