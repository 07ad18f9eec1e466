package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/proxymancer/internal/artwork"
	"github.com/arcanaland/proxymancer/internal/card"
)

type fakeResolver map[string]card.Locator

func (f fakeResolver) Resolve(ctx context.Context, entry card.Entry) (card.Locator, error) {
	locator, ok := f[entry.Name]
	if !ok {
		return card.Locator{}, fmt.Errorf("no card named %q", entry.Name)
	}
	return locator, nil
}

// fakeFetcher returns a distinct image per URL; later URLs finish first
type fakeFetcher struct {
	mu     sync.Mutex
	images map[string]*artwork.Image
	fail   map[string]bool
	panics map[string]bool
	delays map[string]time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		images: map[string]*artwork.Image{},
		fail:   map[string]bool{},
		panics: map[string]bool{},
		delays: map[string]time.Duration{},
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*artwork.Image, error) {
	f.mu.Lock()
	delay := f.delays[url]
	fail := f.fail[url]
	explode := f.panics[url]
	f.mu.Unlock()

	time.Sleep(delay)
	if explode {
		panic("worker exploded")
	}
	if fail {
		return nil, fmt.Errorf("%w: %s", artwork.ErrDecode, url)
	}

	img := &artwork.Image{Pixels: image.NewGray(image.Rect(0, 0, 1, 1)), ColorSpace: artwork.Greyscale}
	f.mu.Lock()
	f.images[url] = img
	f.mu.Unlock()
	return img, nil
}

type recordingLog struct {
	mu                   sync.Mutex
	infos, warns, errors []string
}

func (l *recordingLog) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLog) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLog) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

var testDeck = fakeResolver{
	"Sol Ring": {Front: "sol-ring.png"},
	"Delver":   {Front: "delver-front.png", Back: "delver-back.png"},
	"Faceless": {},
	"Arcane":   {Front: "arcane.png"},
}

func urls(b *Batch) []string {
	var out []string
	for _, r := range b.Results {
		out = append(out, r.URL)
	}
	return out
}

func TestRunSingleLayoutFetchesBacks(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.delays["sol-ring.png"] = 30 * time.Millisecond
	o := &Orchestrator{Resolver: testDeck, Fetcher: fetcher, Backs: true}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Delver"}, {Name: "Arcane"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"sol-ring.png", "delver-front.png", "delver-back.png", "arcane.png"}, urls(batch))
	assert.Equal(t, Front, batch.Results[1].Face)
	assert.Equal(t, Back, batch.Results[2].Face)
	for _, r := range batch.Results {
		assert.Same(t, fetcher.images[r.URL], r.Image)
	}
	assert.Equal(t, 3, batch.Requests)
}

func TestRunGridLayoutFetchesFrontsOnly(t *testing.T) {
	o := &Orchestrator{Resolver: testDeck, Fetcher: newFakeFetcher(), Backs: false}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Delver"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"sol-ring.png", "delver-front.png"}, urls(batch))
}

func TestRunSkipsUnresolvedEntries(t *testing.T) {
	log := &recordingLog{}
	o := &Orchestrator{Resolver: testDeck, Fetcher: newFakeFetcher(), Log: log, Backs: true}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Nope", SetCode: "XYZ"}, {Name: "Arcane"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"sol-ring.png", "arcane.png"}, urls(batch))
	assert.Equal(t, []card.Entry{{Name: "Nope", SetCode: "XYZ"}}, batch.Unresolved)
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "Nope (XYZ)")
	assert.Equal(t, 3, batch.Requests)
}

func TestRunUsesCardBackWithoutFrontImage(t *testing.T) {
	log := &recordingLog{}
	fetcher := newFakeFetcher()
	o := &Orchestrator{Resolver: testDeck, Fetcher: fetcher, Log: log, Backs: true}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Faceless"}})
	require.NoError(t, err)

	require.Len(t, batch.Results, 1)
	assert.Equal(t, "", batch.Results[0].URL)
	assert.Equal(t, Front, batch.Results[0].Face)
	assert.NoError(t, batch.Results[0].Err)
	assert.Same(t, fetcher.images[""], batch.Results[0].Image)
	assert.Len(t, batch.Images(log), 1)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "using card back")
}

func TestRunKeepsFetchFailures(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.fail["delver-back.png"] = true
	log := &recordingLog{}
	o := &Orchestrator{Resolver: testDeck, Fetcher: fetcher, Backs: true}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Delver"}, {Name: "Sol Ring"}})
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Failed())
	assert.ErrorIs(t, batch.Results[1].Err, artwork.ErrDecode)

	images := batch.Images(log)
	assert.Len(t, images, 2)
	assert.Same(t, fetcher.images["delver-front.png"], images[0])
	assert.Same(t, fetcher.images["sol-ring.png"], images[1])
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "back image for Delver")
}

func TestRunPanicIsSchedulingFault(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.panics["arcane.png"] = true
	o := &Orchestrator{Resolver: testDeck, Fetcher: fetcher}

	batch, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Arcane"}})
	require.Error(t, err)

	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, ErrSchedulingFault))
}

func TestRunPacesSuccessfulResolutions(t *testing.T) {
	var pauses []time.Duration
	o := &Orchestrator{
		Resolver: testDeck,
		Fetcher:  newFakeFetcher(),
		Delay:    DefaultDelay,
		Sleep: func(ctx context.Context, d time.Duration) error {
			pauses = append(pauses, d)
			return nil
		},
	}

	_, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Nope"}, {Name: "Arcane"}})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{DefaultDelay, DefaultDelay}, pauses)
}

func TestRunDefaultSleepWaits(t *testing.T) {
	o := &Orchestrator{Resolver: testDeck, Fetcher: newFakeFetcher(), Delay: 20 * time.Millisecond}

	start := time.Now()
	_, err := o.Run(context.Background(), []card.Entry{{Name: "Sol Ring"}, {Name: "Arcane"}})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &Orchestrator{Resolver: testDeck, Fetcher: newFakeFetcher(), Delay: time.Second}

	_, err := o.Run(ctx, []card.Entry{{Name: "Sol Ring"}, {Name: "Arcane"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	o := &Orchestrator{Resolver: testDeck, Fetcher: newFakeFetcher()}

	batch, err := o.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, batch.Results)
	assert.Zero(t, batch.Requests)
}
