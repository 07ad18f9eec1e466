package ansi

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/arcanaland/proxymancer/internal/artwork"
)

const (
	upperHalf = '▀'
	reset     = "\x1b[0m"
)

// sampler returns the colour of one half cell: the average of the pixel
// pair starting at x, y
type sampler func(x, y int) color.RGBA

// cell is one character: upper pixels in fg, lower pixels in bg
type cell struct {
	fg, bg color.RGBA
}

// Render draws img as width x height character cells of upper half blocks
// in 24-bit colour. Escape codes are only written when a colour changes.
func Render(img *artwork.Image, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	resized := resize.Resize(uint(width*2), uint(height*2), img.Pixels, resize.Lanczos3)
	sample := colorSampler(resized)
	if grey, ok := resized.(*image.Gray); ok && img.ColorSpace == artwork.Greyscale {
		sample = greySampler(grey)
	}

	origin := resized.Bounds().Min
	row := make([]cell, width)

	var out strings.Builder
	for y := 0; y < height; y++ {
		for x := range row {
			px, py := origin.X+2*x, origin.Y+2*y
			row[x] = cell{fg: sample(px, py), bg: sample(px, py+1)}
		}
		writeRow(&out, row)
	}

	return out.String()
}

func writeRow(out *strings.Builder, row []cell) {
	for i, c := range row {
		if i == 0 || c.fg != row[i-1].fg {
			fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm", c.fg.R, c.fg.G, c.fg.B)
		}
		if i == 0 || c.bg != row[i-1].bg {
			fmt.Fprintf(out, "\x1b[48;2;%d;%d;%dm", c.bg.R, c.bg.G, c.bg.B)
		}
		out.WriteRune(upperHalf)
	}
	out.WriteString(reset)
	out.WriteByte('\n')
}

func greySampler(img *image.Gray) sampler {
	return func(x, y int) color.RGBA {
		sum := uint16(img.GrayAt(x, y).Y) + uint16(img.GrayAt(x+1, y).Y)
		v := uint8((sum + 1) / 2)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

// colorSampler blends pixel pairs in linear RGB so edges between light and
// dark areas keep their brightness
func colorSampler(img image.Image) sampler {
	return func(x, y int) color.RGBA {
		left, _ := colorful.MakeColor(img.At(x, y))
		right, _ := colorful.MakeColor(img.At(x+1, y))
		r, g, b := left.BlendLinearRgb(right, 0.5).Clamped().RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}
	}
}

// HeightFor returns the cell height that keeps an aspect ratio at the
// given cell width. Terminal cells are about twice as tall as wide.
func HeightFor(width int, aspectWidth, aspectHeight float64) int {
	return int(float64(width)*aspectHeight/aspectWidth/2 + 0.5)
}

// Strip removes CSI escape sequences such as colour codes
func Strip(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			// parameters and intermediates run until a final byte in 0x40-0x7e
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			i = j
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// Width is the number of terminal columns s occupies once escape codes
// are removed
func Width(s string) int {
	return utf8.RuneCountInString(Strip(s))
}

// Wrap breaks text into lines of at most width runes. Words longer than
// width are split. A width of zero or less keeps everything on one line.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line []rune
	for _, w := range words {
		word := []rune(w)
		for width > 0 && len(word) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(word[:width]))
			word = word[width:]
		}

		switch {
		case len(line) == 0:
			line = word
		case width <= 0 || len(line)+1+len(word) <= width:
			line = append(append(line, ' '), word...)
		default:
			lines = append(lines, string(line))
			line = word
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}

	return lines
}
