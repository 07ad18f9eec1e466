package layout

import (
	"fmt"

	"github.com/arcanaland/proxymancer/internal/card"
)

// A4 page size in millimetres
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Layout names accepted by Named
const (
	SingleName = "single"
	GridName   = "grid"
)

// Slot is where one card goes. X and Y locate the lower-left corner
// measured from the lower-left corner of the page.
type Slot struct {
	Page   int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the distance from the top edge of the page to the slot
func (s Slot) Top() float64 {
	return PageHeightMM - s.Y - s.Height
}

// Policy maps the i-th image of a run to a slot
type Policy interface {
	Name() string
	PerPage() int
	Slot(i int) Slot
}

// Named returns the policy called name. grid is used for the grid layout.
func Named(name string, grid Grid) (Policy, error) {
	switch name {
	case SingleName, "":
		return Single{}, nil
	case GridName:
		if err := grid.Validate(); err != nil {
			return nil, err
		}
		return grid, nil
	}
	return nil, fmt.Errorf("unknown layout %q (expected %q or %q)", name, SingleName, GridName)
}

// Single puts every card centered on its own page
type Single struct{}

func (Single) Name() string { return SingleName }

func (Single) PerPage() int { return 1 }

func (Single) Slot(i int) Slot {
	return Slot{
		Page:   i,
		X:      PageWidthMM/2 - card.WidthMM/2,
		Y:      PageHeightMM/2 - card.HeightMM/2,
		Width:  card.WidthMM,
		Height: card.HeightMM,
	}
}

// Grid packs Cols x Rows cards per page in row-major order, the block
// centered on the page with Padding millimetres between cards
type Grid struct {
	Cols    int
	Rows    int
	Padding float64
}

// DefaultGrid is 3x3 without padding
var DefaultGrid = Grid{Cols: 3, Rows: 3}

func (g Grid) Name() string { return GridName }

func (g Grid) PerPage() int { return g.Cols * g.Rows }

// Validate rejects empty grids and negative padding
func (g Grid) Validate() error {
	if g.Cols < 1 || g.Rows < 1 {
		return fmt.Errorf("grid must have at least one column and one row, got %dx%d", g.Cols, g.Rows)
	}
	if g.Padding < 0 {
		return fmt.Errorf("grid padding cannot be negative: %g", g.Padding)
	}
	return nil
}

// Size returns the width and height of the card block.
//
// The height counts the padding twice, once per row and once between
// rows. Output has always been laid out this way so it is kept, but it is
// probably a bug: the block sits higher than centered when padding > 0.
func (g Grid) Size() (width, height float64) {
	cols, rows := float64(g.Cols), float64(g.Rows)
	width = cols*card.WidthMM + (cols-1)*g.Padding
	height = rows*(card.HeightMM+g.Padding) + (rows-1)*g.Padding
	return width, height
}

// Fits reports whether the card block fits on the page
func (g Grid) Fits() bool {
	w, h := g.Size()
	return w <= PageWidthMM && h <= PageHeightMM
}

func (g Grid) Slot(i int) Slot {
	col := i % g.Cols
	row := (i / g.Cols) % g.Rows

	w, h := g.Size()
	xOffset := (PageWidthMM - w) / 2
	yOffset := (PageHeightMM - h) / 2

	return Slot{
		Page:   i / g.PerPage(),
		X:      xOffset + (card.WidthMM+g.Padding)*float64(col),
		Y:      PageHeightMM - yOffset - (card.HeightMM+g.Padding)*float64(row+1),
		Width:  card.WidthMM,
		Height: card.HeightMM,
	}
}

// Placement is an item in its slot
type Placement[T any] struct {
	Item T
	Slot Slot
}

// Page is the ordered placements of one page
type Page[T any] struct {
	Index      int
	Placements []Placement[T]
}

// Arrange places items in order. A new page starts whenever the index is
// a multiple of the policy's cards per page; no items means no pages.
func Arrange[T any](p Policy, items []T) []Page[T] {
	var pages []Page[T]
	for i, item := range items {
		slot := p.Slot(i)
		if i%p.PerPage() == 0 {
			pages = append(pages, Page[T]{Index: slot.Page})
		}
		current := &pages[len(pages)-1]
		current.Placements = append(current.Placements, Placement[T]{Item: item, Slot: slot})
	}
	return pages
}

// PageCount returns how many pages n items take under p
func PageCount(p Policy, n int) int {
	per := p.PerPage()
	return (n + per - 1) / per
}
