// Package genre models the closed genre vocabulary used when classifying
// collection entries.
//
// The vocabulary is a fixed enumeration: labels coming back from the
// classification provider are parsed permissively, and anything that does not
// resolve to a member maps to the Unknown entry instead of an error. The
// default list can be replaced through configuration, which keeps the label
// set maintained outside the code while preserving closed-set validation.
package genre

import (
	"strings"
	"unicode"
)

// Genre is a canonical label from the vocabulary.
type Genre string

// Unknown is the designated fallback entry. It is a valid output value but is
// never part of the configured vocabulary itself.
const Unknown Genre = "Unknown"

// defaultLabels is the stock 22-entry vocabulary.
var defaultLabels = []string{
	"Action",
	"Action RPG",
	"Adventure",
	"Beat 'em up",
	"Fighting",
	"Horror",
	"Metroidvania",
	"Platform",
	"Puzzle",
	"Racing",
	"RPG",
	"Roguelike",
	"Run and Gun",
	"Shoot 'em up",
	"Shooter",
	"Simulation",
	"Sports",
	"Stealth",
	"Strategy",
	"Survival",
	"Tactical RPG",
	"Visual Novel",
}

// Vocabulary is the closed set of genres a run may assign.
type Vocabulary struct {
	labels []Genre
	index  map[string]Genre
}

// Default returns the stock vocabulary.
func Default() *Vocabulary {
	return New(defaultLabels)
}

// New builds a vocabulary from the supplied labels. Blank and duplicate
// entries are dropped; the Unknown entry is always recognized but never
// listed.
func New(labels []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]Genre, len(labels))}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		key := foldLabel(label)
		if _, ok := v.index[key]; ok {
			continue
		}
		g := Genre(label)
		v.index[key] = g
		v.labels = append(v.labels, g)
	}
	return v
}

// Labels returns the canonical labels in declaration order.
func (v *Vocabulary) Labels() []Genre {
	out := make([]Genre, len(v.labels))
	copy(out, v.labels)
	return out
}

// Strings returns the canonical labels as plain strings, for prompts.
func (v *Vocabulary) Strings() []string {
	out := make([]string, len(v.labels))
	for i, g := range v.labels {
		out[i] = string(g)
	}
	return out
}

// Len reports the number of entries, excluding Unknown.
func (v *Vocabulary) Len() int { return len(v.labels) }

// Parse resolves raw text to a vocabulary member. Unrecognized input maps to
// Unknown rather than failing; provider output is never trusted against the
// closed set.
func (v *Vocabulary) Parse(raw string) Genre {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}
	key := foldLabel(raw)
	if key == foldLabel(string(Unknown)) {
		return Unknown
	}
	if g, ok := v.index[key]; ok {
		return g
	}
	return Unknown
}

// Contains reports whether g is a member of the vocabulary.
func (v *Vocabulary) Contains(g Genre) bool {
	_, ok := v.index[foldLabel(string(g))]
	return ok
}

// foldLabel reduces a label to a comparison key: lowercase letters and digits
// only, with "&" and "+" treated as "and".
func foldLabel(input string) string {
	lowered := strings.ToLower(input)
	lowered = strings.ReplaceAll(lowered, "&", "and")
	lowered = strings.ReplaceAll(lowered, "+", "and")
	var builder strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
