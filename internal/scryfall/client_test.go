package scryfall

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/proxymancer/internal/card"
)

const singleFaced = `{
  "object": "card",
  "name": "Tayam, Luminous Enigma",
  "set": "c20",
  "image_uris": {
    "normal": "https://img.example/normal/tayam.jpg",
    "png": "https://img.example/png/tayam.png"
  }
}`

const doubleFaced = `{
  "object": "card",
  "name": "Delver of Secrets // Insectile Aberration",
  "card_faces": [
    {"name": "Delver of Secrets", "image_uris": {"png": "https://img.example/png/delver-front.png"}},
    {"name": "Insectile Aberration", "image_uris": {"png": "https://img.example/png/delver-back.png"}}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL + "/cards/named", UserAgent: "proxymancer/test"})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestRequestURL(t *testing.T) {
	c := NewClient(Options{})

	assert.Equal(t,
		"https://api.scryfall.com/cards/named?fuzzy=Tayam%2C+Luminous+Enigma&set=C20",
		c.RequestURL(card.Entry{Name: "Tayam, Luminous Enigma", SetCode: "C20"}))
	assert.Equal(t,
		"https://api.scryfall.com/cards/named?fuzzy=Fire+%2F%2F+Ice",
		c.RequestURL(card.Entry{Name: "Fire // Ice"}))
}

func TestResolveSendsQueryAndHeaders(t *testing.T) {
	var got *http.Request
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		respond(http.StatusOK, singleFaced)(w, r)
	})

	_, err := c.Resolve(context.Background(), card.Entry{Name: "Tayam, Luminous Enigma", SetCode: "C20"})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/cards/named", got.URL.Path)
	assert.Equal(t, "Tayam, Luminous Enigma", got.URL.Query().Get("fuzzy"))
	assert.Equal(t, "C20", got.URL.Query().Get("set"))
	assert.Equal(t, "proxymancer/test", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestResolveOmitsEmptySet(t *testing.T) {
	var query map[string][]string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		respond(http.StatusOK, singleFaced)(w, r)
	})

	_, err := c.Resolve(context.Background(), card.Entry{Name: "Sol Ring"})
	require.NoError(t, err)

	assert.NotContains(t, query, "set")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		body string
		want card.Locator
	}{
		{"single-faced", singleFaced, card.Locator{Front: "https://img.example/png/tayam.png"}},
		{"double-faced", doubleFaced, card.Locator{
			Front: "https://img.example/png/delver-front.png",
			Back:  "https://img.example/png/delver-back.png",
		}},
		{"one face with png", `{"card_faces": [
			{"image_uris": {"png": "https://img.example/a.png"}},
			{"image_uris": {"normal": "https://img.example/b.jpg"}}
		]}`, card.Locator{Front: "https://img.example/a.png"}},
		{"no face with png", `{"card_faces": [{"image_uris": {"normal": "x"}}]}`, card.Locator{}},
		{"more than two faces", `{"card_faces": [
			{"image_uris": {"png": "1"}}, {"image_uris": {"png": "2"}}, {"image_uris": {"png": "3"}}
		]}`, card.Locator{Front: "1", Back: "2"}},
		{"variant missing at top level falls back to faces", `{
			"image_uris": {"normal": "x"},
			"card_faces": [{"image_uris": {"png": "f"}}]
		}`, card.Locator{Front: "f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, respond(http.StatusOK, tt.body))

			got, err := c.Resolve(context.Background(), card.Entry{Name: "Anything"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		cause  string
	}{
		{"not found", http.StatusNotFound, `{"object": "error", "details": "No cards found matching “Nope”"}`, "No cards found matching “Nope”"},
		{"server error without body", http.StatusInternalServerError, ``, "failed to retrieve card data"},
		{"malformed json", http.StatusOK, `{"image_uris": `, "failed to parse response"},
		{"no image structure", http.StatusOK, `{"name": "Plains"}`, ErrNoImages.Error()},
		{"face without image_uris", http.StatusOK, `{"card_faces": [{"name": "a"}]}`, "field 'image_uris' not found on face 0"},
		{"url not a string", http.StatusOK, `{"image_uris": {"png": 42}}`, "image URL is not a valid string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, respond(tt.status, tt.body))
			entry := card.Entry{Name: "Nope", SetCode: "XYZ"}

			_, err := c.Resolve(context.Background(), entry)
			require.Error(t, err)

			var resErr *ResolutionError
			require.True(t, errors.As(err, &resErr))
			assert.Equal(t, entry, resErr.Card)
			assert.Equal(t, tt.status, resErr.Status)
			assert.Contains(t, err.Error(), tt.cause)
		})
	}
}

func TestResolveTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	c := NewClient(Options{BaseURL: server.URL})

	_, err := c.Resolve(context.Background(), card.Entry{Name: "Sol Ring"})
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Zero(t, resErr.Status)
	assert.Contains(t, err.Error(), "request failed")
}

func TestResolveImageVariant(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, singleFaced))
	t.Cleanup(server.Close)
	c := NewClient(Options{BaseURL: server.URL, ImageVariant: "normal"})

	got, err := c.Resolve(context.Background(), card.Entry{Name: "Tayam"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/normal/tayam.jpg", got.Front)
}

func TestLookup(t *testing.T) {
	c := newTestServer(t, respond(http.StatusOK, doubleFaced))

	got, err := c.Lookup(context.Background(), card.Entry{Name: "Delver"})
	require.NoError(t, err)

	assert.Equal(t, "Delver of Secrets // Insectile Aberration", got.Name)
	require.Len(t, got.CardFaces, 2)
	assert.Equal(t, "Insectile Aberration", got.CardFaces[1].Name)
}
