package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arcanaland/proxymancer/internal/config"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "proxymancer",
	Short: "Turn a card decklist into a printable PDF of proxies",
	Long: `Proxymancer reads a plain-text decklist, looks every card up in the
Scryfall card database, downloads the artwork and lays it out on A4 pages,
one card per page or in a grid, ready to print and cut.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Path to a config file (default: $XDG_CONFIG_HOME/proxymancer/config.toml)")
}

// configPath returns the path given with --config, or the default location
func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.GetConfigFilePath()
}

// loadConfig reads the config named by --config, which must exist, or the
// default one, which is created on first use
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.LoadConfig()
}
