// Package config loads, normalizes, and validates backlog configuration.
//
// It supplies repository defaults, expands user paths, reads TOML files, and
// honours environment fallbacks such as OPENAI_API_KEY. Obtain settings
// through this package so downstream code receives sanitized values, canonical
// log formats, and clear validation errors before any record is processed.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"backlog/internal/collection"
	"backlog/internal/genre"
)

//go:embed sample_config.toml
var sampleConfig string

// HLTB contains configuration for the completion-time provider.
type HLTB struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// LLM contains connection settings for the classification provider.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pipeline contains the enrichment run knobs.
type Pipeline struct {
	// OverwriteInput writes results back into the input file instead of a
	// sibling .enriched.csv.
	OverwriteInput bool `toml:"overwrite_input"`
	// MaxGames caps how many records one run may process; 0 means unbounded.
	// Records beyond the cap pass through unmodified.
	MaxGames int `toml:"max_games"`
	// MaxConcurrent bounds in-flight completion-time lookups.
	MaxConcurrent int `toml:"max_concurrent"`
	// SimilarityThreshold is the minimum provider similarity for a match.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	// GenreBatchSize is the maximum number of titles per classification call.
	GenreBatchSize int `toml:"genre_batch_size"`
	// SkipPlatforms lists platforms the completion-time provider does not
	// index; lookups for them are skipped outright.
	SkipPlatforms []string `toml:"skip_platforms"`
	// Genres replaces the stock genre vocabulary when set.
	Genres []string `toml:"genres"`
}

// Pricing contains the per-token rates used for the cost estimate.
type Pricing struct {
	InputUSDPerMtok  float64 `toml:"input_usd_per_mtok"`
	OutputUSDPerMtok float64 `toml:"output_usd_per_mtok"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for backlog.
type Config struct {
	HLTB     HLTB     `toml:"hltb"`
	LLM      LLM      `toml:"llm"`
	Pipeline Pipeline `toml:"pipeline"`
	Pricing  Pricing  `toml:"pricing"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/backlog/config.toml")
}

// Load locates, parses, and validates a configuration file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("backlog.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Vocabulary builds the closed genre set the run may assign.
func (c *Config) Vocabulary() *genre.Vocabulary {
	if len(c.Pipeline.Genres) > 0 {
		return genre.New(c.Pipeline.Genres)
	}
	return genre.Default()
}

// SkipPlatformSet returns the skip-platform lookup table, keyed the same way
// record identities are normalized so spelling variants still match.
func (c *Config) SkipPlatformSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Pipeline.SkipPlatforms))
	for _, platform := range c.Pipeline.SkipPlatforms {
		key := collection.NormalizeName(platform)
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
