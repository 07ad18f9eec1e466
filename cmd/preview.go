package cmd

import (
	"fmt"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/proxymancer/internal/ansi"
	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/card"
	"github.com/arcanaland/proxymancer/internal/scryfall"
)

var previewCmd = &cobra.Command{
	Use:   "preview [card name]",
	Short: "Display a card with ANSI art",
	Long: `Preview looks a card up the same way build does and prints its artwork
as ANSI terminal art, with the card details beside it.

Card names are matched fuzzily, so partial names work.

Examples:
  proxymancer preview Sol Ring
  proxymancer preview --set c20 "Tayam, Luminous Enigma"
  proxymancer preview --back "Delver of Secrets"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		set, _ := cmd.Flags().GetString("set")
		back, _ := cmd.Flags().GetBool("back")
		width, _ := cmd.Flags().GetInt("width")

		entry := card.Entry{Name: strings.Join(args, " "), SetCode: set}

		client := scryfall.NewClient(cfg.ScryfallOptions())
		c, err := client.Lookup(cmd.Context(), entry)
		if err != nil {
			return err
		}

		locator, err := c.Locator(client.ImageVariant())
		if err != nil {
			return fmt.Errorf("error reading images of %s: %w", c.Name, err)
		}

		url := locator.Front
		if back {
			if !locator.DoubleFaced() {
				return fmt.Errorf("%s has no back face", c.Name)
			}
			url = locator.Back
		}

		fetcher := artwork.NewFetcher(client.HTTPClient(), artwork.Options{UserAgent: cfg.UserAgent})
		img, err := fetcher.Fetch(cmd.Context(), url)
		if err != nil {
			return fmt.Errorf("error loading artwork: %w", err)
		}

		if width <= 0 {
			width = 32
		}
		art := ansi.Render(img, width, ansi.HeightFor(width, card.WidthMM, card.HeightMM))

		displayCard(c, art, back)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("set", "s", "", "Set code of the printing to show")
	previewCmd.Flags().BoolP("back", "b", false, "Show the back face of a double-faced card")
	previewCmd.Flags().IntP("width", "w", 32, "Width of the art in terminal columns")
}

// cardText holds the fields shown next to the art
type cardText struct {
	name, manaCost, typeLine, oracle string
}

// faceText picks the text of the face being shown
func faceText(c *scryfall.Card, back bool) cardText {
	t := cardText{name: c.Name, manaCost: c.ManaCost, typeLine: c.TypeLine, oracle: c.OracleText}

	if len(c.CardFaces) == 0 {
		return t
	}
	i := 0
	if back && len(c.CardFaces) > 1 {
		i = 1
	}
	f := c.CardFaces[i]
	return cardText{name: f.Name, manaCost: f.ManaCost, typeLine: f.TypeLine, oracle: f.OracleText}
}

func displayCard(c *scryfall.Card, ansiArt string, back bool) {
	ansiLines := strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		visibleWidth := ansi.Width(line)
		if visibleWidth > maxAnsiWidth {
			maxAnsiWidth = visibleWidth
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	text := faceText(c, back)

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:   ")+colorize.HiWhiteString("%s", text.name))
	if text.manaCost != "" {
		infoLines = append(infoLines, colorize.CyanString("Cost:   ")+colorize.HiWhiteString("%s", text.manaCost))
	}
	infoLines = append(infoLines, colorize.CyanString("Type:   ")+colorize.HiWhiteString("%s", text.typeLine))
	infoLines = append(infoLines, colorize.CyanString("Set:    ")+
		colorize.HiWhiteString("%s (%s)", c.SetName, strings.ToUpper(c.SetCode)))
	if c.Artist != "" {
		infoLines = append(infoLines, colorize.CyanString("Artist: ")+colorize.HiWhiteString("%s", c.Artist))
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing

	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	if text.oracle != "" {
		infoLines = append(infoLines, "")
		for _, paragraph := range strings.Split(text.oracle, "\n") {
			infoLines = append(infoLines, ansi.Wrap(paragraph, infoWidth)...)
		}
	}

	fmt.Println()

	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := ansi.Width(ansiLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}

		fmt.Println()
	}

	fmt.Println()
}
