package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/arcanaland/proxymancer/internal/card"
)

var (
	// ErrFetch is returned when image bytes cannot be downloaded
	ErrFetch = errors.New("failed to fetch image")
	// ErrDecode is returned when downloaded bytes are not a decodable image
	ErrDecode = errors.New("failed to decode image")
)

// Options configures a Fetcher
type Options struct {
	UserAgent string
	// MaxDPI caps the resolution of artwork at card size. Larger images are
	// resampled down; 0 keeps the original pixels.
	MaxDPI float64
}

// Fetcher downloads card artwork and normalizes it for embedding.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxDPI    float64
}

// NewFetcher creates a fetcher using client for downloads.
// A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, userAgent: opts.UserAgent, maxDPI: opts.MaxDPI}
}

// Fetch returns the normalized image at url. An empty url selects the
// bundled card back.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if url == "" {
		back, err := CardBack()
		if err != nil {
			return nil, err
		}
		return f.fit(back), nil
	}

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	return f.fit(img), nil
}

// Decode decodes image bytes and normalizes the result
func Decode(data []byte) (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Normalize(img), nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}

	return data, nil
}

// fit resamples img down to MaxDPI at card width. Resampled output goes
// through Normalize again so it stays opaque.
func (f *Fetcher) fit(img *Image) *Image {
	if f.maxDPI <= 0 {
		return img
	}

	width := MaxWidth(f.maxDPI)
	if img.Bounds().Dx() <= width {
		return img
	}

	return Normalize(resize.Resize(uint(width), 0, img.Pixels, resize.Lanczos3))
}

// MaxWidth is the pixel width of a card printed at dpi
func MaxWidth(dpi float64) int {
	return int(card.WidthMM / 25.4 * dpi)
}
