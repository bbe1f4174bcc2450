package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/pearcec/clubportal/internal/config"
)

var (
	rootConfigPath  string
	rootAPIURL      string
	rootMetricsFile string
	rootVerbose     bool

	// current is the session app built before each command runs.
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "clubportal",
	Short: "Campus club portal: society events and student recommendations",
	Long: `Welcome to the Club Portal.

Societies post events and announcements; students pick their interests and
see the events whose predicted tags overlap them.

  login     Choose society or student and start an interactive session
  society   Create, edit and delete events; post announcements
  student   Select interests and see recommended events
  tags      List the tag vocabulary

Events are stored by the portal's event service (see --api-url).`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", config.DefaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Event service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log requests and store changes to stderr")
}

func setupApp(cmd *cobra.Command, args []string) error {
	if rootVerbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if rootAPIURL != "" {
		cfg.API.BaseURL = rootAPIURL
	}
	if rootMetricsFile != "" {
		cfg.Metrics.Textfile = rootMetricsFile
	}

	a, err := newApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	current = a
	return nil
}

// loadConfig uses the cached default config unless --config names another
// file. The result is a copy, so flag overrides never leak into the cache.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if f := cmd.Flag("config"); f != nil && f.Changed {
		return config.LoadFrom(rootConfigPath)
	}
	cached, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg := *cached
	return &cfg, nil
}

func closeApp() error {
	if current == nil {
		return nil
	}
	err := current.close()
	current = nil
	return err
}
