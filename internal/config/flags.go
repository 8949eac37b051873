package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagEpsilon    = flag.Float64("eps", 0, "Weld tolerance")
	flagPieVersion = flag.Int("pie-version", 0, "PIE version to write (2 or 3)")
	flagTexDir     = flag.String("texdir", "", "Extra texture search directory, searched first")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagEpsilon > 0 {
		cfg.Weld.Epsilon = float32(*flagEpsilon)
	}
	if *flagPieVersion != 0 {
		cfg.Export.PieVersion = *flagPieVersion
	}
	if *flagTexDir != "" {
		cfg.Texture.SearchPaths = append([]string{*flagTexDir}, cfg.Texture.SearchPaths...)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
