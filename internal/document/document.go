package document

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/layout"
)

var (
	// ErrIO wraps failures to create or write the output file
	ErrIO = errors.New("cannot write document")
	// ErrEmptyDocument is returned when there is nothing to print
	ErrEmptyDocument = errors.New("document has no pages")
)

// Creator is recorded in the PDF metadata
const Creator = "proxymancer"

// Document is an assembled PDF waiting to be written
type Document struct {
	Title string

	pdf     *gofpdf.Fpdf
	written bool
}

// OutputPath returns the PDF path for a decklist: same directory and
// base name, .pdf extension
func OutputPath(decklistPath string) string {
	return strings.TrimSuffix(decklistPath, filepath.Ext(decklistPath)) + ".pdf"
}

// Assemble renders laid-out pages into a PDF. Each image is embedded once,
// however many slots show it.
func Assemble(title string, pages []layout.Page[*artwork.Image]) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: layout.PageWidthMM, Ht: layout.PageHeightMM},
	})
	pdf.SetTitle(title, true)
	pdf.SetCreator(Creator, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	names := make(map[*artwork.Image]string)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	for _, page := range pages {
		pdf.AddPage()

		for _, p := range page.Placements {
			name, ok := names[p.Item]
			if !ok {
				var buf bytes.Buffer
				if err := p.Item.EncodePNG(&buf); err != nil {
					return nil, fmt.Errorf("encoding image for page %d: %w", page.Index+1, err)
				}
				name = fmt.Sprintf("card-%d", len(names))
				pdf.RegisterImageOptionsReader(name, opts, &buf)
				names[p.Item] = name
			}

			pdf.ImageOptions(name, p.Slot.X, p.Slot.Top(), p.Slot.Width, p.Slot.Height, false, opts, 0, "")
		}

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", page.Index+1, err)
		}
	}

	return &Document{Title: title, pdf: pdf}, nil
}

// PageCount returns the number of pages in the document
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// WriteFile writes the document to path. A document can only be written once.
func (d *Document) WriteFile(path string) error {
	if d.written {
		return fmt.Errorf("document %q has already been written", d.Title)
	}
	d.written = true

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	w := bufio.NewWriter(file)
	if err := d.pdf.Output(w); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	return nil
}
