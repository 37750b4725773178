package collection

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"backlog/internal/genre"
)

// Record is one game entry. Title and Platform form the identity; Status is
// user-owned and passes through every pipeline stage untouched.
type Record struct {
	Title    string
	Platform string

	Year       Cell[int]
	Genre      Cell[genre.Genre]
	GameID     Cell[string]
	TimeToBeat Cell[float64]
	Score      Cell[int]

	Status string
}

// Key returns the normalized identity key for deduplication.
func (r Record) Key() string {
	return NormalizeName(r.Title) + "|" + NormalizeName(r.Platform)
}

var keyFolder = cases.Fold()

// NormalizeName reduces a title or platform to its comparison form: case
// folded, symbols "&" and "+" spelled out, everything but letters and digits
// dropped.
func NormalizeName(input string) string {
	folded := keyFolder.String(strings.TrimSpace(input))
	folded = strings.ReplaceAll(folded, "&", "and")
	folded = strings.ReplaceAll(folded, "+", "and")
	var builder strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Dedupe collapses records sharing an identity key. The first occurrence
// wins; later duplicates are dropped and counted. Order is preserved.
func Dedupe(records []Record) ([]Record, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		key := rec.Key()
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out, dropped
}
