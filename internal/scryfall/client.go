package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arcanaland/proxymancer/internal/card"
)

// DefaultBaseURL is the named-card lookup endpoint
const DefaultBaseURL = "https://api.scryfall.com/cards/named"

// DefaultImageVariant is the image_uris field used for print artwork
const DefaultImageVariant = "png"

// ErrNoImages is the cause of a ResolutionError when the response has
// neither image_uris nor card_faces
var ErrNoImages = errors.New("image URLs not found in response")

// ResolutionError reports a card that could not be resolved to image URLs
type ResolutionError struct {
	Card   card.Entry
	Status int // HTTP status, 0 when the request did not complete
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolving %s: status %d: %v", e.Card, e.Status, e.Err)
	}
	return fmt.Sprintf("resolving %s: %v", e.Card, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Options configures a Client
type Options struct {
	BaseURL      string
	ImageVariant string
	UserAgent    string
	Timeout      time.Duration // 0 disables the timeout
}

// Client resolves card names to image URLs. It is safe for concurrent use.
type Client struct {
	http         *http.Client
	baseURL      string
	imageVariant string
	userAgent    string
}

// NewClient creates a client, filling unset options with defaults
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageVariant == "" {
		opts.ImageVariant = DefaultImageVariant
	}

	return &Client{
		http:         &http.Client{Timeout: opts.Timeout},
		baseURL:      opts.BaseURL,
		imageVariant: opts.ImageVariant,
		userAgent:    opts.UserAgent,
	}
}

// HTTPClient returns the underlying HTTP client so image downloads can share it
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// RequestURL builds the fuzzy lookup URL for an entry
func (c *Client) RequestURL(entry card.Entry) string {
	query := url.Values{}
	query.Set("fuzzy", entry.Name)
	if entry.SetCode != "" {
		query.Set("set", entry.SetCode)
	}
	return c.baseURL + "?" + query.Encode()
}

// Resolve looks up a card by fuzzy name and optional set code and returns
// the URLs of its face images
func (c *Client) Resolve(ctx context.Context, entry card.Entry) (card.Locator, error) {
	data, status, err := c.lookup(ctx, entry)
	if err != nil {
		return card.Locator{}, err
	}

	locator, err := data.Locator(c.imageVariant)
	if err != nil {
		return card.Locator{}, &ResolutionError{Card: entry, Status: status, Err: err}
	}

	return locator, nil
}

// Lookup returns the card object for an entry
func (c *Client) Lookup(ctx context.Context, entry card.Entry) (*Card, error) {
	data, _, err := c.lookup(ctx, entry)
	return data, err
}

// ImageVariant returns the image_uris field this client resolves
func (c *Client) ImageVariant() string {
	return c.imageVariant
}

func (c *Client) lookup(ctx context.Context, entry card.Entry) (*Card, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(entry), nil)
	if err != nil {
		return nil, 0, &ResolutionError{Card: entry, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &ResolutionError{Card: entry, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &ResolutionError{
			Card:   entry,
			Status: resp.StatusCode,
			Err:    errorDetails(resp.Body),
		}
	}

	var data Card
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, resp.StatusCode, &ResolutionError{
			Card:   entry,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("failed to parse response: %w", err),
		}
	}

	return &data, resp.StatusCode, nil
}

// errorObject is the body the API sends with non-success statuses
type errorObject struct {
	Details string `json:"details"`
}

func errorDetails(body io.Reader) error {
	var e errorObject
	if err := json.NewDecoder(io.LimitReader(body, 64*1024)).Decode(&e); err != nil || e.Details == "" {
		return errors.New("failed to retrieve card data")
	}
	return errors.New(e.Details)
}
