package collection_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backlog/internal/collection"
	"backlog/internal/genre"
)

const sampleCSV = `Game,Platform,Year,Genre,Game Id,Time to Beat,Score,Status
Chrono Trigger,SNES,1995,RPG,1345,25.50,89,Finished
Growl,Mega Drive,,,,,,
Thrill Kill,PS1,1998,Unknown,Unknown,Unknown,Unknown,Skipped
`

func TestReadDistinguishesEmptyFromUnknown(t *testing.T) {
	records, err := collection.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	full := records[0]
	if year, ok := full.Year.Value(); !ok || year != 1995 {
		t.Fatalf("unexpected year cell: %+v", full.Year)
	}
	if g, ok := full.Genre.Value(); !ok || g != genre.Genre("RPG") {
		t.Fatalf("unexpected genre cell: %+v", full.Genre)
	}
	if ttb, ok := full.TimeToBeat.Value(); !ok || ttb != 25.5 {
		t.Fatalf("unexpected time to beat: %+v", full.TimeToBeat)
	}
	if full.Status != "Finished" {
		t.Fatalf("unexpected status: %q", full.Status)
	}

	blank := records[1]
	if !blank.Year.IsEmpty() || !blank.Genre.IsEmpty() || !blank.GameID.IsEmpty() {
		t.Fatalf("expected empty cells: %+v", blank)
	}

	unknown := records[2]
	if !unknown.Genre.IsUnknown() || !unknown.GameID.IsUnknown() || !unknown.TimeToBeat.IsUnknown() {
		t.Fatalf("expected unknown cells: %+v", unknown)
	}
	if !unknown.Score.IsUnknown() {
		t.Fatalf("expected unknown score: %+v", unknown.Score)
	}
}

func TestReadRejectsUnexpectedHeader(t *testing.T) {
	_, err := collection.Read(strings.NewReader("Title,Platform,Year,Genre,Game Id,Time to Beat,Score,Status\n"))
	if err == nil {
		t.Fatal("expected header error")
	}
}

func TestReadRejectsMalformedNumbers(t *testing.T) {
	input := "Game,Platform,Year,Genre,Game Id,Time to Beat,Score,Status\nGrowl,Mega Drive,ninety,,,,,\n"
	if _, err := collection.Read(strings.NewReader(input)); err == nil {
		t.Fatal("expected parse error for non-numeric year")
	}
}

func TestReadRejectsOutOfRangeScore(t *testing.T) {
	input := "Game,Platform,Year,Genre,Game Id,Time to Beat,Score,Status\nGrowl,Mega Drive,,,,,150,\n"
	if _, err := collection.Read(strings.NewReader(input)); err == nil {
		t.Fatal("expected range error for score above 100")
	}
}

func TestWriteRendersSentinelsAndQuarters(t *testing.T) {
	records := []collection.Record{
		{
			Title:      "Chrono Trigger",
			Platform:   "SNES",
			Year:       collection.SetCell(1995),
			Genre:      collection.SetCell(genre.Genre("RPG")),
			GameID:     collection.SetCell("1345"),
			TimeToBeat: collection.SetCell(25.5),
			Score:      collection.SetCell(89),
			Status:     "Finished",
		},
		{
			Title:      "Obscure Game X",
			Platform:   "PC",
			GameID:     collection.UnknownCell[string](),
			TimeToBeat: collection.UnknownCell[float64](),
			Score:      collection.UnknownCell[int](),
		},
	}

	var sb strings.Builder
	if err := collection.Write(&sb, records); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	got := sb.String()
	if !strings.Contains(got, "Chrono Trigger,SNES,1995,RPG,1345,25.50,89,Finished") {
		t.Fatalf("missing full row in output:\n%s", got)
	}
	if !strings.Contains(got, "Obscure Game X,PC,,,Unknown,Unknown,Unknown,") {
		t.Fatalf("missing sentinel row in output:\n%s", got)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.csv")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	records := []collection.Record{{Title: "Growl", Platform: "Mega Drive"}}
	if err := collection.WriteFile(path, records); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	reread, err := collection.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if len(reread) != 1 || reread[0].Title != "Growl" {
		t.Fatalf("unexpected reread content: %+v", reread)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") || strings.HasSuffix(entry.Name(), ".lock") {
			t.Fatalf("leftover artifact %q", entry.Name())
		}
	}
}

func TestRoundTripPreservesUserFields(t *testing.T) {
	records, err := collection.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	var sb strings.Builder
	if err := collection.Write(&sb, records); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	reread, err := collection.Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("second Read returned error: %v", err)
	}
	if len(reread) != len(records) {
		t.Fatalf("record count changed: %d vs %d", len(reread), len(records))
	}
	if reread[0].Status != "Finished" || reread[2].Status != "Skipped" {
		t.Fatalf("status fields not preserved: %+v", reread)
	}
}
