package proxy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/console"
	"github.com/arcanaland/proxymancer/internal/decklist"
	"github.com/arcanaland/proxymancer/internal/document"
	"github.com/arcanaland/proxymancer/internal/layout"
	"github.com/arcanaland/proxymancer/internal/pipeline"
	"github.com/arcanaland/proxymancer/internal/scryfall"
)

// Params is everything a run needs besides the network clients
type Params struct {
	DecklistPath string
	Policy       layout.Policy
	Delay        time.Duration
}

// Report summarises a finished run
type Report struct {
	OutputPath string
	Entries    int
	Skipped    int // decklist lines that could not be parsed
	Requests   int // card database lookups
	Unresolved int
	Images     int // images placed in the document
	Failed     int // images that could not be fetched
	Pages      int
	Elapsed    time.Duration
}

// Builder runs the decklist to PDF pipeline
type Builder struct {
	Resolver pipeline.Resolver
	Fetcher  pipeline.Fetcher
	Log      console.Logger
}

// NewBuilder wires a builder to the card database client. Image downloads
// share the client's HTTP connection pool.
func NewBuilder(client *scryfall.Client, opts artwork.Options, log console.Logger) *Builder {
	return &Builder{
		Resolver: client,
		Fetcher:  artwork.NewFetcher(client.HTTPClient(), opts),
		Log:      log,
	}
}

// Build turns the decklist into <stem>.pdf beside it. Per-card problems
// are logged and skipped; reading the decklist, writing the PDF and task
// faults are fatal.
func (b *Builder) Build(ctx context.Context, params Params) (*Report, error) {
	start := time.Now()
	log := b.Log
	if log == nil {
		log = console.Discard
	}

	deck, err := decklist.LoadFile(params.DecklistPath)
	if err != nil {
		return nil, err
	}
	for _, w := range deck.Warnings {
		log.Warnf("Skipped line %d - %s", w.Line, w.Text)
	}

	policy := params.Policy
	if policy == nil {
		policy = layout.Single{}
	}

	orchestrator := &pipeline.Orchestrator{
		Resolver: b.Resolver,
		Fetcher:  b.Fetcher,
		Log:      log,
		Backs:    policy.Name() == layout.SingleName,
		Delay:    params.Delay,
	}

	batch, err := orchestrator.Run(ctx, deck.Entries)
	if err != nil {
		return nil, err
	}

	images := batch.Images(log)
	pages := layout.Arrange(policy, images)

	doc, err := document.Assemble(Title(params.DecklistPath), pages)
	if err != nil {
		return nil, err
	}

	outputPath := document.OutputPath(params.DecklistPath)
	if err := doc.WriteFile(outputPath); err != nil {
		return nil, err
	}

	return &Report{
		OutputPath: outputPath,
		Entries:    len(deck.Entries),
		Skipped:    len(deck.Warnings),
		Requests:   batch.Requests,
		Unresolved: len(batch.Unresolved),
		Images:     len(images),
		Failed:     batch.Failed(),
		Pages:      doc.PageCount(),
		Elapsed:    time.Since(start),
	}, nil
}

// Title is the document title for a decklist: its base name without extension
func Title(decklistPath string) string {
	base := filepath.Base(decklistPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (r *Report) String() string {
	return fmt.Sprintf("%d pages, %d images from %d entries (%d unresolved, %d failed images)",
		r.Pages, r.Images, r.Entries, r.Unresolved, r.Failed)
}
