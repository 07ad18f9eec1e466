package validator

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/arcanaland/proxymancer/internal/card"
	"github.com/arcanaland/proxymancer/internal/decklist"
)

var (
	quantityPattern = regexp.MustCompile(`^\s*(\d+)x?\s`)
	setCodePattern  = regexp.MustCompile(`^[a-zA-Z0-9]{2,6}$`)
)

type ValidationResults struct {
	Entries  []card.Entry
	Errors   []string
	Warnings []string
}

type Validator struct {
	DecklistPath string
	Results      ValidationResults
}

func NewValidator(decklistPath string) *Validator {
	return &Validator{
		DecklistPath: decklistPath,
		Results:      ValidationResults{},
	}
}

// Validate checks the decklist without contacting the card database.
// The error return is for files that cannot be read at all.
func (v *Validator) Validate() (ValidationResults, error) {
	file, err := os.Open(v.DecklistPath)
	if err != nil {
		return v.Results, fmt.Errorf("error opening decklist: %w", err)
	}
	defer file.Close()

	if err := decklist.EachLine(file, v.validateLine); err != nil {
		return v.Results, fmt.Errorf("error reading decklist: %w", err)
	}

	if len(v.Results.Entries) == 0 {
		v.Results.Errors = append(v.Results.Errors, "no card lines found (expected lines like '1 Sol Ring (C21)')")
	}

	return v.Results, nil
}

func (v *Validator) validateLine(lineNumber int, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	entry, ok := decklist.ParseLine(line)
	if !ok {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("line %d will be skipped: %q", lineNumber, strings.TrimSpace(line)))
		return
	}

	if entry.Name == "" {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("line %d has no card name", lineNumber))
		return
	}

	v.Results.Entries = append(v.Results.Entries, entry)

	if m := quantityPattern.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 1 {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("line %d: quantity %d is ignored, one copy of %s will be printed", lineNumber, n, entry.Name))
		}
	}

	if strings.Contains(line, "(") {
		if entry.SetCode == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("line %d: no set code found in parentheses, any printing of %s may be used", lineNumber, entry.Name))
		} else if !setCodePattern.MatchString(entry.SetCode) {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("line %d: unusual set code %q", lineNumber, entry.SetCode))
		}
	}
}
