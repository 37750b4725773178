package collection_test

import (
	"testing"

	"backlog/internal/collection"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Chrono Trigger ": "chronotrigger",
		"Mega Drive":        "megadrive",
		"PICO-8":            "pico8",
		"Ratchet & Clank":   "ratchetandclank",
		"Mario + Rabbids":   "marioandrabbids",
		"":                  "",
	}
	for input, want := range cases {
		if got := collection.NormalizeName(input); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestKeyCombinesTitleAndPlatform(t *testing.T) {
	a := collection.Record{Title: "Tetris", Platform: "GB"}
	b := collection.Record{Title: "  TETRIS ", Platform: "gb"}
	c := collection.Record{Title: "Tetris", Platform: "NES"}
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Fatalf("expected distinct keys for different platforms, both %q", a.Key())
	}
}

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	records := []collection.Record{
		{Title: "Tetris", Platform: "GB", Status: "Playing"},
		{Title: "Growl", Platform: "Mega Drive"},
		{Title: "TETRIS", Platform: "gb", Status: "Backlog"},
		{Title: "Tetris", Platform: "NES"},
	}
	out, dropped := collection.Dedupe(records)
	if dropped != 1 {
		t.Fatalf("expected 1 dropped duplicate, got %d", dropped)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(out))
	}
	if out[0].Status != "Playing" {
		t.Fatalf("first occurrence should win, got status %q", out[0].Status)
	}
	if out[0].Title != "Tetris" || out[1].Title != "Growl" || out[2].Platform != "NES" {
		t.Fatalf("input order not preserved: %+v", out)
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	records := []collection.Record{
		{Title: "Tetris", Platform: "GB"},
		{Title: "Tetris", Platform: "GB"},
		{Title: "Growl", Platform: "Mega Drive"},
	}
	once, _ := collection.Dedupe(records)
	twice, dropped := collection.Dedupe(once)
	if dropped != 0 {
		t.Fatalf("second pass dropped %d records", dropped)
	}
	if len(twice) != len(once) {
		t.Fatalf("second pass changed record count: %d vs %d", len(twice), len(once))
	}
}

func TestCellStates(t *testing.T) {
	var empty collection.Cell[int]
	if !empty.IsEmpty() || empty.IsSet() || empty.IsUnknown() {
		t.Fatal("zero cell should be empty")
	}
	if !empty.NeedsFill() {
		t.Fatal("empty cell should need fill")
	}

	unknown := collection.UnknownCell[int]()
	if !unknown.IsUnknown() || !unknown.NeedsFill() {
		t.Fatal("unknown cell should need fill")
	}

	set := collection.SetCell(42)
	if set.NeedsFill() {
		t.Fatal("set cell must never be refilled")
	}
	if value, ok := set.Value(); !ok || value != 42 {
		t.Fatalf("unexpected value: %d, %v", value, ok)
	}
}
