package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/proxymancer/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [decklist]",
	Short: "Validate a decklist without downloading anything",
	Long: `Validate parses a decklist the same way build does and reports the cards
it found, lines that will be skipped, and set codes that look wrong.
No requests are made to the card database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decklistPath := args[0]

		if _, err := os.Stat(decklistPath); os.IsNotExist(err) {
			return fmt.Errorf("decklist not found: %s", decklistPath)
		}

		v := validator.NewValidator(decklistPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Decklist '%s' is valid: %d cards.\n", decklistPath, len(results.Entries))
		} else {
			fmt.Printf("❌ Decklist '%s' has %d validation errors:\n", decklistPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
