package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Directory.BaseURL) == "" {
		problems = append(problems, "directory.base_url must be set")
	}
	if c.Directory.TimeoutSeconds <= 0 {
		problems = append(problems, "directory.timeout_seconds must be positive")
	}

	if err := validateScore("matching.auto_accept_score", c.Matching.AutoAcceptScore); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateScore("matching.auto_reject_floor", c.Matching.AutoRejectFloor); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateScore("matching.accept_margin", c.Matching.AcceptMargin); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateScore("matching.org_hint_boost", c.Matching.OrgHintBoost); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Matching.AutoRejectFloor > c.Matching.AutoAcceptScore {
		problems = append(problems, "matching.auto_reject_floor must not exceed matching.auto_accept_score")
	}
	if c.Matching.TopK <= 0 {
		problems = append(problems, "matching.top_k must be positive")
	}

	if len(c.Affiliation.Include) == 0 {
		problems = append(problems, "affiliation.include must contain at least one pattern")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func validateScore(field string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", field)
	}
	return nil
}
