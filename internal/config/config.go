package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Directory contains configuration for the personnel directory service.
type Directory struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// APIKey is never read from the file; it comes from the environment.
	APIKey string `toml:"-"`
}

// Matching contains the layered decision thresholds. Scores are in [0, 1].
type Matching struct {
	// AutoAcceptScore is the minimum top-candidate score for automatic
	// acceptance when the affiliation is institutional.
	AutoAcceptScore float64 `toml:"auto_accept_score"`
	// AutoRejectFloor is the score below which a top candidate is treated as
	// no match at all.
	AutoRejectFloor float64 `toml:"auto_reject_floor"`
	// AcceptMargin is the minimum lead the top candidate needs over the
	// runner-up before automatic acceptance.
	AcceptMargin float64 `toml:"accept_margin"`
	// TopK bounds the candidate list presented for review.
	TopK int `toml:"top_k"`
	// OrgHintBoost is added to a candidate's score when a co-author org hint
	// matches. The boost is capped so it can reorder candidates but never
	// push a sub-threshold score into automatic acceptance on its own.
	OrgHintBoost float64 `toml:"org_hint_boost"`
}

// Affiliation contains the institutional pattern rule sets.
type Affiliation struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for curator.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Directory: personnel directory endpoint and timeout
//   - Matching: decision-engine thresholds and candidate bounds
//   - Affiliation: institutional inclusion/exclusion patterns
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Directory   Directory   `toml:"directory"`
	Matching    Matching    `toml:"matching"`
	Affiliation Affiliation `toml:"affiliation"`
	Logging     Logging     `toml:"logging"`
}

// secrets are sourced from the environment only, mirroring how the curation
// tooling has always received its directory credentials.
type secrets struct {
	PeopleAPIKey string `env:"PEOPLE_API_KEY"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/curator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment secrets applied.
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

	var sec secrets
	if err := env.Parse(&sec); err != nil {
		return nil, "", false, fmt.Errorf("parse environment: %w", err)
	}
	if sec.PeopleAPIKey != "" {
		cfg.Directory.APIKey = sec.PeopleAPIKey
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

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
		_, err = os.Stat(expanded)
		if err != nil {
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

	projectPath, err := filepath.Abs("curator.toml")
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

// EnsureDirectories creates the directories curator needs to run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Directory.BaseURL = strings.TrimRight(strings.TrimSpace(c.Directory.BaseURL), "/")
	c.Directory.APIKey = strings.TrimSpace(c.Directory.APIKey)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Matching.TopK <= 0 {
		c.Matching.TopK = defaultTopK
	}
	return nil
}

// ExpandPath resolves a leading ~ against the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
