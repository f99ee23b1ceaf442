package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    = slog.Default()
)

var rootCmd = newCommandTree()

// newCommandTree returns the root command with every subcommand attached.
// Each call binds fresh flags.
func newCommandTree() *cobra.Command {
	root := newRootCmd()
	root.AddCommand(newBuildCmd(), newCheckCmd(), newServeCmd())
	return root
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gunkustom-docs",
		Short: "Builds the GunKustom internal docs site",
		Long: `gunkustom-docs collects the Markdown docs and blog posts of the GunKustom
internal docs site, renders them through the site layouts and writes a static
site to the output directory (default './build/').`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd, os.Stderr)
		},
	}

	defaults := config.Defaults()
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./gunkustom.yaml)")
	pf.StringP("output-dir", "o", defaults.OutputDir, "directory the site is written to")
	pf.String("site-file", "", "site record YAML file (default is the built-in GunKustom record)")
	pf.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", defaults.LogFormat, "log format: text or json")
	return cmd
}

// flagKeys maps viper keys to the flags that override them.
var flagKeys = map[string]string{
	"outputDir":      "output-dir",
	"siteFile":       "site-file",
	"logLevel":       "log-level",
	"logFormat":      "log-format",
	"drafts":         "drafts",
	"port":           "port",
	"metrics":        "metrics",
	"diagramBaseURL": "diagram-base-url",
	"diagramTimeout": "diagram-timeout",
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("Command failed", slog.String("category", string(serrors.GetCategory(err))), logfields.Error(err))
		os.Exit(1)
	}
}

func initializeConfig(cmd *cobra.Command, logOut io.Writer) error {
	v := viper.New()

	defaults := config.Defaults()
	v.SetDefault("outputDir", defaults.OutputDir)
	v.SetDefault("siteFile", "")
	v.SetDefault("drafts", false)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("metrics", false)
	v.SetDefault("logLevel", defaults.LogLevel)
	v.SetDefault("logFormat", defaults.LogFormat)
	v.SetDefault("diagramBaseURL", "")
	v.SetDefault("diagramTimeout", defaults.DiagramTimeout)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gunkustom")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GUNKUSTOM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return serrors.Wrap(err, serrors.CategoryConfig, "failed to bind flag "+name)
			}
		}
	}

	readErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if readErr != nil && (cfgFile != "" || !errors.As(readErr, &notFound)) {
		return serrors.Wrap(readErr, serrors.CategoryConfig, "failed to read config file")
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return serrors.Wrap(err, serrors.CategoryConfig, "unable to decode config into struct")
	}

	l, err := newLogger(appConfig.LogLevel, appConfig.LogFormat, logOut)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(l)

	if readErr == nil {
		logger.Debug("Using config file", logfields.Path(v.ConfigFileUsed()))
	} else {
		logger.Debug("No config file found, using defaults and environment")
	}
	return nil
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, fmt.Sprintf("invalid log level %q", level))
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, serrors.New(serrors.CategoryConfig, fmt.Sprintf("invalid log format %q", format))
	}
}

// loadSite returns the site record named by the app config.
func loadSite() (config.Site, error) {
	site, err := config.LoadSite(appConfig.SiteFile)
	if err != nil {
		return config.Site{}, err
	}
	logger.Debug("Loaded site record", slog.String("title", site.Title), slog.String("base_url", site.BaseURL))
	return site, nil
}
