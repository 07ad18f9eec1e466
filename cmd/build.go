package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/config"
	"github.com/arcanaland/proxymancer/internal/console"
	"github.com/arcanaland/proxymancer/internal/layout"
	"github.com/arcanaland/proxymancer/internal/proxy"
	"github.com/arcanaland/proxymancer/internal/scryfall"
)

var buildCmd = &cobra.Command{
	Use:   "build [decklist]",
	Short: "Create a printable PDF from a decklist",
	Long: `Build looks up every card of a decklist, downloads its artwork and writes
a PDF with the same name next to the decklist.

Decklist lines hold a quantity, the card name and optionally a set code:
  1 Tayam, Luminous Enigma (C20)
  1 Sol Ring

By default every card gets its own page and double-faced cards get a page per
face. With --grid, cards are packed 3x3 per page and only front faces are printed.

Examples:
  proxymancer build deck.txt
  proxymancer build --grid --padding 1.5 deck.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if err := applyBuildFlags(cmd, cfg); err != nil {
			return err
		}

		policy, err := cfg.Policy()
		if err != nil {
			return err
		}

		con := console.New()
		if grid, ok := policy.(layout.Grid); ok && !grid.Fits() {
			w, h := grid.Size()
			con.Warnf("a %dx%d grid with %gmm padding is %.1fx%.1fmm and does not fit on the page", grid.Cols, grid.Rows, grid.Padding, w, h)
		}

		client := scryfall.NewClient(cfg.ScryfallOptions())
		builder := proxy.NewBuilder(client, artwork.Options{UserAgent: cfg.UserAgent, MaxDPI: cfg.MaxDPI}, con)

		report, err := builder.Build(cmd.Context(), proxy.Params{
			DecklistPath: args[0],
			Policy:       policy,
			Delay:        cfg.RequestDelay(),
		})
		if err != nil {
			return fmt.Errorf("error building PDF: %w", err)
		}

		fmt.Fprintln(con.Out)
		con.Field("Saving pdf to path", "%s", report.OutputPath)
		con.Field("Pages", "%s", report)
		con.Field("Total number of scryfall requests", "%d", report.Requests)
		con.Field("Total processing time", "%.2fs", report.Elapsed.Seconds())

		if open, _ := cmd.Flags().GetBool("open"); open {
			if err := browser.OpenFile(report.OutputPath); err != nil {
				con.Warnf("could not open %s: %v", report.OutputPath, err)
			}
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("grid", "g", false, "Pack cards in a grid instead of one per page")
	cmd.Flags().Float64P("padding", "p", 0, "Space between grid cards in millimetres")
	cmd.Flags().Int("cols", layout.DefaultGrid.Cols, "Grid columns")
	cmd.Flags().Int("rows", layout.DefaultGrid.Rows, "Grid rows")
	cmd.Flags().Float64("max-dpi", 0, "Downscale artwork above this resolution (0 keeps original pixels)")
	cmd.Flags().BoolP("open", "o", false, "Open the PDF when done")
}

// applyBuildFlags overrides config values with flags given on the command line
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("grid") {
		grid, _ := flags.GetBool("grid")
		if grid {
			cfg.Layout = layout.GridName
		} else {
			cfg.Layout = layout.SingleName
		}
	}
	if flags.Changed("padding") {
		cfg.GridPaddingMM, _ = flags.GetFloat64("padding")
	}
	if flags.Changed("cols") {
		cfg.GridCols, _ = flags.GetInt("cols")
	}
	if flags.Changed("rows") {
		cfg.GridRows, _ = flags.GetInt("rows")
	}
	if flags.Changed("max-dpi") {
		cfg.MaxDPI, _ = flags.GetFloat64("max-dpi")
	}

	return cfg.Validate()
}
