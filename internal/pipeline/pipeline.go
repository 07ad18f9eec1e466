package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/card"
	"github.com/arcanaland/proxymancer/internal/console"
)

// DefaultDelay is the pause after each successful resolution
const DefaultDelay = 50 * time.Millisecond

// ErrSchedulingFault is returned when a fetch task dies instead of
// returning a result. It fails the whole batch.
var ErrSchedulingFault = errors.New("fetch task failed")

// Resolver turns a decklist entry into image URLs
type Resolver interface {
	Resolve(ctx context.Context, entry card.Entry) (card.Locator, error)
}

// Fetcher downloads and normalizes one image; an empty url means card back
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*artwork.Image, error)
}

// Face identifies which side of a card an image shows
type Face int

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	if f == Back {
		return "back"
	}
	return "front"
}

// Result is the outcome of one image fetch
type Result struct {
	Entry card.Entry
	Face  Face
	URL   string // empty for the card back placeholder
	Image *artwork.Image
	Err   error
}

// Batch holds the fetch results of a whole decklist in submission order
type Batch struct {
	Results    []Result
	Requests   int          // resolution calls made
	Unresolved []card.Entry // entries that contributed no images
}

// Images returns the fetched images in order. Failed fetches are logged
// and skipped.
func (b *Batch) Images(log console.Logger) []*artwork.Image {
	images := make([]*artwork.Image, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err != nil {
			log.Errorf("Error getting %s image for %s: %v", r.Face, r.Entry, r.Err)
			continue
		}
		images = append(images, r.Image)
	}
	return images
}

// Failed returns the number of results that carry an error
func (b *Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Orchestrator resolves entries one at a time and fetches their images
// concurrently
type Orchestrator struct {
	Resolver Resolver
	Fetcher  Fetcher
	Log      console.Logger

	// Backs fetches back faces of double-faced cards as separate images
	Backs bool
	// Delay is applied after each successful resolution
	Delay time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run processes entries in order. Resolution and fetch failures are
// recorded per card; only a failing task or a cancelled context fails
// the batch.
func (o *Orchestrator) Run(ctx context.Context, entries []card.Entry) (*Batch, error) {
	log := o.Log
	if log == nil {
		log = console.Discard
	}
	sleep := o.Sleep
	if sleep == nil {
		sleep = wait
	}

	batch := &Batch{}
	var results []*Result
	var g errgroup.Group

	for _, entry := range entries {
		if entry.HasSet() {
			log.Infof("Creating image URL for card '%s' from set '%s'", entry.Name, entry.SetCode)
		} else {
			log.Infof("Creating image URL for card '%s'", entry.Name)
		}

		batch.Requests++
		locator, err := o.Resolver.Resolve(ctx, entry)
		if err != nil {
			log.Errorf("Error retrieving image URL for card %s: %v", entry, err)
			batch.Unresolved = append(batch.Unresolved, entry)
			continue
		}

		if locator.Front == "" {
			log.Warnf("No image available for card %s, using card back", entry)
		}

		for i, url := range locator.Faces(o.Backs) {
			r := &Result{Entry: entry, Face: Face(i), URL: url}
			results = append(results, r)
			g.Go(func() error {
				return o.fetch(ctx, r)
			})
		}

		log.Infof("Downloading image for card %s", entry.Name)

		if err := sleep(ctx, o.Delay); err != nil {
			g.Wait()
			return nil, err
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch.Results = make([]Result, len(results))
	for i, r := range results {
		batch.Results[i] = *r
	}

	return batch, nil
}

// fetch fills r. A fetch error is data, a panic is a scheduling fault.
func (o *Orchestrator) fetch(ctx context.Context, r *Result) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s %s: %v\n%s", ErrSchedulingFault, r.Entry, r.Face, p, debug.Stack())
		}
	}()

	r.Image, r.Err = o.Fetcher.Fetch(ctx, r.URL)
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
