package card

// Card dimensions in millimetres (standard trading card, 63 x 88 mm)
const (
	WidthMM  = 63.0
	HeightMM = 88.0
)

// Entry is one decklist line: a card name and an optional set code
type Entry struct {
	Name    string // Card name as written in the decklist, trimmed
	SetCode string // Set code from the parenthesised suffix, empty when absent
}

// HasSet reports whether the entry pins a specific printing
func (e Entry) HasSet() bool {
	return e.SetCode != ""
}

// String formats the entry the way it is printed in diagnostics
func (e Entry) String() string {
	if e.SetCode == "" {
		return e.Name
	}
	return e.Name + " (" + e.SetCode + ")"
}

// Locator holds the image URLs of a resolved card.
// An empty Front means no image is available and the card back is used.
// Back is only set for double-faced cards.
type Locator struct {
	Front string
	Back  string
}

// DoubleFaced reports whether the card has a separate back face image
func (l Locator) DoubleFaced() bool {
	return l.Back != ""
}

// Faces returns the image URLs to fetch, front first.
// When backs is false, only the front is returned.
func (l Locator) Faces(backs bool) []string {
	if backs && l.DoubleFaced() {
		return []string{l.Front, l.Back}
	}
	return []string{l.Front}
}
