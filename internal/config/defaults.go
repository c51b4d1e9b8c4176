package config

import "curator/internal/affiliation"

const (
	defaultDataDir          = "~/.local/share/curator"
	defaultLogDir           = "~/.local/share/curator/logs"
	defaultDirectoryBaseURL = "https://hhmipeople-prod.azurewebsites.net/People"
	defaultDirectoryTimeout = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// defaultAutoAcceptScore matches the long-standing 85% confidence bar for
	// recommending an employee match without review.
	defaultAutoAcceptScore = 0.85
	defaultAutoRejectFloor = 0.50
	defaultAcceptMargin    = 0.05
	defaultTopK            = 5
	defaultOrgHintBoost    = 0.05
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Directory: Directory{
			BaseURL:        defaultDirectoryBaseURL,
			TimeoutSeconds: defaultDirectoryTimeout,
		},
		Matching: Matching{
			AutoAcceptScore: defaultAutoAcceptScore,
			AutoRejectFloor: defaultAutoRejectFloor,
			AcceptMargin:    defaultAcceptMargin,
			TopK:            defaultTopK,
			OrgHintBoost:    defaultOrgHintBoost,
		},
		Affiliation: Affiliation{
			Include: append([]string(nil), affiliation.DefaultInclude...),
			Exclude: append([]string(nil), affiliation.DefaultExclude...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
