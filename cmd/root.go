package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "soundcloud-downloader",
	Short: "Ephemeral audio download service",
	Long: `soundcloud-downloader runs an HTTP API that extracts the audio track
of a media URL via yt-dlp, stages it as a temporary file, and serves it
for a single download before deleting it.

Staged files are also reclaimed by an age-based sweep (on startup and
before each download) and by the DELETE /cleanup endpoint.

Example:
  soundcloud-downloader serve
  soundcloud-downloader purge`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		// No config file is fine; the built-in defaults match the
		// reference deployment.
		loaded = config.Default()
	}
	cfg = loaded
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
