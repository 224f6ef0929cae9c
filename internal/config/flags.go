package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAddr       = flag.String("addr", "", "HTTP listen address")
	flagWindowed   = flag.Bool("windowed", false, "Run the preview in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run the preview in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Preview width")
	flagHeight     = flag.Int("height", 0, "Preview height")
	flagColors     = flag.Bool("colors", false, "Color vertices by texture coordinate")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
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
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagWindowed {
		cfg.Preview.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Preview.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Preview.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Preview.Height = *flagHeight
	}
	if *flagColors {
		cfg.Preview.TexcoordColors = true
		cfg.Export.TexcoordColors = true
	}
}
