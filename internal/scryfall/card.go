package scryfall

import (
	"encoding/json"
	"fmt"

	"github.com/arcanaland/proxymancer/internal/card"
)

// Card is the subset of the card object used for artwork and previews.
// image_uris stays raw so a present-but-malformed URL can be told apart
// from a missing one.
type Card struct {
	Name       string                     `json:"name"`
	SetCode    string                     `json:"set"`
	SetName    string                     `json:"set_name"`
	TypeLine   string                     `json:"type_line"`
	ManaCost   string                     `json:"mana_cost"`
	OracleText string                     `json:"oracle_text"`
	Artist     string                     `json:"artist"`
	ImageURIs  map[string]json.RawMessage `json:"image_uris"`
	CardFaces  []Face                     `json:"card_faces"`
}

// Face is one side of a multi-faced card
type Face struct {
	Name       string                     `json:"name"`
	TypeLine   string                     `json:"type_line"`
	ManaCost   string                     `json:"mana_cost"`
	OracleText string                     `json:"oracle_text"`
	ImageURIs  map[string]json.RawMessage `json:"image_uris"`
}

// Locator picks the face images of the requested variant.
// A top-level image_uris object wins; otherwise up to two faces are used.
func (c *Card) Locator(variant string) (card.Locator, error) {
	if c.ImageURIs != nil {
		if raw, ok := c.ImageURIs[variant]; ok {
			u, err := imageURL(raw)
			if err != nil {
				return card.Locator{}, err
			}
			return card.Locator{Front: u}, nil
		}
	}

	if c.CardFaces == nil {
		return card.Locator{}, ErrNoImages
	}

	var urls []string
	for i, face := range c.CardFaces {
		if face.ImageURIs == nil {
			return card.Locator{}, fmt.Errorf("field 'image_uris' not found on face %d", i)
		}
		raw, ok := face.ImageURIs[variant]
		if !ok {
			continue
		}
		u, err := imageURL(raw)
		if err != nil {
			return card.Locator{}, err
		}
		urls = append(urls, u)
		if len(urls) == 2 {
			break
		}
	}

	switch len(urls) {
	case 0:
		return card.Locator{}, nil
	case 1:
		return card.Locator{Front: urls[0]}, nil
	default:
		return card.Locator{Front: urls[0], Back: urls[1]}, nil
	}
}

func imageURL(raw json.RawMessage) (string, error) {
	var u string
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", fmt.Errorf("image URL is not a valid string")
	}
	return u, nil
}
