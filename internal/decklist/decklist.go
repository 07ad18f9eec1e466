package decklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/arcanaland/proxymancer/internal/card"
)

var (
	// quantity digit, then the name up to the last " (" on the line
	namePatternWithSet = regexp.MustCompile(`\d (.*) \(`)
	// quantity digit, then the rest of the line
	namePatternWithoutSet = regexp.MustCompile(`\d (.*)`)
	setPattern            = regexp.MustCompile(`\(([a-zA-Z0-9]*)\)`)
)

// Decklist is the parsed content of a decklist file
type Decklist struct {
	Path     string
	Entries  []card.Entry
	Warnings []ParseWarning
}

// ParseWarning describes a line that was skipped because it matched no pattern
type ParseWarning struct {
	Line int    // 1-based line number
	Text string // Line content, trimmed
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("skipped line %d: %q", w.Line, w.Text)
}

// LoadFile parses the decklist at path
func LoadFile(path string) (*Decklist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening decklist: %w", err)
	}
	defer file.Close()

	d, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("error reading decklist %s: %w", path, err)
	}
	d.Path = path

	return d, nil
}

// Parse reads decklist lines from r. Lines that cannot be parsed are
// recorded as warnings and do not stop parsing; only read failures
// are returned as errors.
func Parse(r io.Reader) (*Decklist, error) {
	d := &Decklist{}

	err := EachLine(r, func(lineNumber int, line string) {
		entry, ok := ParseLine(line)
		if !ok {
			d.Warnings = append(d.Warnings, ParseWarning{Line: lineNumber, Text: strings.TrimSpace(line)})
			return
		}
		d.Entries = append(d.Entries, entry)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// EachLine calls fn for every line of r with its 1-based number and without
// the line ending. Lines have no length limit.
func EachLine(r io.Reader, fn func(lineNumber int, line string)) error {
	reader := bufio.NewReader(r)

	lineNumber := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if line == "" && err == io.EOF {
			return nil
		}

		lineNumber++
		fn(lineNumber, strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))

		if err == io.EOF {
			return nil
		}
	}
}

// ParseLine extracts a card entry from a single decklist line.
// The pattern is chosen by whether the line contains an opening parenthesis.
func ParseLine(line string) (card.Entry, bool) {
	pattern := namePatternWithoutSet
	if strings.Contains(line, "(") {
		pattern = namePatternWithSet
	}

	match := pattern.FindStringSubmatch(line)
	if match == nil {
		return card.Entry{}, false
	}

	entry := card.Entry{Name: strings.TrimSpace(match[1])}
	if set := setPattern.FindStringSubmatch(line); set != nil {
		entry.SetCode = set[1]
	}

	return entry, true
}
