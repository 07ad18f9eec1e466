package artwork

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/disintegration/imaging"
)

//go:embed assets/card_back.png
var cardBackPNG []byte

var cardBack = sync.OnceValues(func() (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(cardBackPNG))
	if err != nil {
		return nil, fmt.Errorf("%w: bundled card back: %v", ErrDecode, err)
	}
	return Normalize(img), nil
})

// CardBack returns the bundled card back artwork. The result is shared and
// must not be modified.
func CardBack() (*Image, error) {
	return cardBack()
}
