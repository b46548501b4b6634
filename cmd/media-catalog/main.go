package main

import (
	"os"

	"github.com/spf13/cobra"

	"media-catalog/internal/startup"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:     "media-catalog",
	Version: startup.Version,
	Short:   "Scan media directories and serve bounded image previews",
	Long: `media-catalog walks a media root for files matching an extension set,
streams the matches as they are found, and serves JPEG previews from a
bounded in-memory cache.

Configuration is read from media-catalog.yaml, the environment
(MEDIA_ROOT, PORT, LOG_LEVEL, ...) and flags, in increasing precedence.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./media-catalog.yaml or /etc/media-catalog/media-catalog.yaml)")
	flags.String("root", "", "media root directory")
	flags.String("port", "", "HTTP listen port")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("vips", false, "decode previews through libvips")

	rootCmd.AddCommand(serveCmd, scanCmd, previewCmd, lsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration with the command's flags applied. Flags
// left unset on the command line do not override other sources.
func loadConfig(cmd *cobra.Command) (*startup.Config, error) {
	return startup.LoadConfig(configFile, cmd.Flags())
}
