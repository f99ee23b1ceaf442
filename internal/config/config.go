package config

import "time"

// Config holds the generator's own settings, read by viper from flags,
// GUNKUSTOM_* environment variables and an optional gunkustom.yaml.
type Config struct {
	OutputDir      string        `mapstructure:"outputDir"`
	SiteFile       string        `mapstructure:"siteFile"`
	Drafts         bool          `mapstructure:"drafts"`
	Port           int           `mapstructure:"port"`
	Metrics        bool          `mapstructure:"metrics"`
	LogLevel       string        `mapstructure:"logLevel"`
	LogFormat      string        `mapstructure:"logFormat"`
	DiagramBaseURL string        `mapstructure:"diagramBaseURL"`
	DiagramTimeout time.Duration `mapstructure:"diagramTimeout"` // zero applies no deadline
}

// Conventional source layout, relative to the working directory.
const (
	DocsDir    = "docs"
	BlogDir    = "blog"
	StaticDir  = "static"
	LayoutsDir = "layouts"
)

// Defaults mirrors what the root command registers with viper.
func Defaults() Config {
	return Config{
		OutputDir: "build",
		Port:      3000,
		LogLevel:  "info",
		LogFormat: "text",
	}
}
