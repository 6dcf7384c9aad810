package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cratedig/internal/app"
	"github.com/ewilliams-labs/cratedig/internal/config"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

var (
	configPath string
	dbPath     string
	token      string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cratedig",
		Short:        "Dig for music you don't know yet, from the artists you already love",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults to $CRATEDIG_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "settings database path (in memory when empty)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Spotify access token (overrides SPOTIFY_ACCESS_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(yearsCmd())
	rootCmd.AddCommand(tasteCmd())
	rootCmd.AddCommand(artistsCmd())
	rootCmd.AddCommand(settingsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getApp loads configuration, applies flag overrides and wires the service.
func getApp() (*app.App, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	if token != "" {
		cfg.Spotify.AccessToken = token
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	return app.New(cfg, nil)
}
