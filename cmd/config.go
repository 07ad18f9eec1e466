package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/proxymancer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the proxymancer config file",
	Long:  `Create, locate and print the TOML config file used by build and preview.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config file if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(cmd)

		created, err := config.Init(path)
		if err != nil {
			return fmt.Errorf("error creating config: %w", err)
		}

		if created {
			fmt.Printf("Created config file at %s\n", colorize.HiWhiteString(path))
		} else {
			fmt.Printf("Config file already exists at %s\n", colorize.HiWhiteString(path))
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configPath(cmd))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
