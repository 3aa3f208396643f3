package config

const (
	defaultDataDir          = "~/.local/share/marquee"
	defaultLogDir           = "~/.local/share/marquee/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultScoringBatchSize = 200
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Scoring: Scoring{
			BatchSize: defaultScoringBatchSize,
		},
	}
}
