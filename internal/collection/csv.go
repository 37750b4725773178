package collection

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"backlog/internal/genre"
)

// UnknownSentinel is the literal written for cells a run could not fill. It is
// distinct from an empty cell, which means the field was never attempted.
const UnknownSentinel = "Unknown"

// Columns is the flat-file header, in order. Each column maps 1:1 to a Record
// field.
var Columns = []string{"Game", "Platform", "Year", "Genre", "Game Id", "Time to Beat", "Score", "Status"}

// Read parses a collection file. The header must match Columns; cell text is
// mapped to tri-state cells ("" empty, "Unknown" unknown, anything else set).
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Columns)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("collection file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, want := range Columns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("unexpected header column %d: got %q want %q", i+1, header[i], want)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, error) {
	rec := Record{
		Title:    strings.TrimSpace(row[0]),
		Platform: strings.TrimSpace(row[1]),
		Status:   row[7],
	}
	if rec.Title == "" {
		return rec, errors.New("game title must not be empty")
	}

	var err error
	if rec.Year, err = parseIntCell(row[2]); err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	rec.Genre = parseGenreCell(row[3])
	rec.GameID = parseStringCell(row[4])
	if rec.TimeToBeat, err = parseFloatCell(row[5]); err != nil {
		return rec, fmt.Errorf("time to beat: %w", err)
	}
	if rec.Score, err = parseIntCell(row[6]); err != nil {
		return rec, fmt.Errorf("score: %w", err)
	}
	if value, ok := rec.TimeToBeat.Value(); ok && value < 0 {
		return rec, fmt.Errorf("time to beat must not be negative: %v", value)
	}
	if value, ok := rec.Score.Value(); ok && (value < 0 || value > 100) {
		return rec, fmt.Errorf("score must be within 0-100: %d", value)
	}
	return rec, nil
}

func parseStringCell(raw string) Cell[string] {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Cell[string]{}
	case UnknownSentinel:
		return UnknownCell[string]()
	default:
		return SetCell(raw)
	}
}

func parseGenreCell(raw string) Cell[genre.Genre] {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Cell[genre.Genre]{}
	case UnknownSentinel:
		return UnknownCell[genre.Genre]()
	default:
		// User-entered genres are preserved verbatim; only pipeline-assigned
		// labels go through vocabulary validation.
		return SetCell(genre.Genre(raw))
	}
}

func parseIntCell(raw string) (Cell[int], error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Cell[int]{}, nil
	case UnknownSentinel:
		return UnknownCell[int](), nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return Cell[int]{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return SetCell(value), nil
}

func parseFloatCell(raw string) (Cell[float64], error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Cell[float64]{}, nil
	case UnknownSentinel:
		return UnknownCell[float64](), nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Cell[float64]{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return SetCell(value), nil
}

// Write serializes records with the canonical header.
func Write(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			rec.Platform,
			renderIntCell(rec.Year),
			renderGenreCell(rec.Genre),
			renderStringCell(rec.GameID),
			renderFloatCell(rec.TimeToBeat),
			renderIntCell(rec.Score),
			rec.Status,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for %q: %w", rec.Title, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func renderStringCell(c Cell[string]) string {
	switch {
	case c.IsSet():
		return c.MustValue()
	case c.IsUnknown():
		return UnknownSentinel
	default:
		return ""
	}
}

func renderGenreCell(c Cell[genre.Genre]) string {
	switch {
	case c.IsSet():
		return string(c.MustValue())
	case c.IsUnknown():
		return UnknownSentinel
	default:
		return ""
	}
}

func renderIntCell(c Cell[int]) string {
	switch {
	case c.IsSet():
		return strconv.Itoa(c.MustValue())
	case c.IsUnknown():
		return UnknownSentinel
	default:
		return ""
	}
}

func renderFloatCell(c Cell[float64]) string {
	switch {
	case c.IsSet():
		return strconv.FormatFloat(c.MustValue(), 'f', 2, 64)
	case c.IsUnknown():
		return UnknownSentinel
	default:
		return ""
	}
}

// ReadFile loads a collection file from disk.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// WriteFile writes the collection atomically: the rows land in a temp file in
// the destination directory and replace the target in a single rename. A
// sibling lock guards against concurrent runs writing the same file.
func WriteFile(path string, records []Record) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire collection lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("collection %s is locked by another run", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp collection: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp collection: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	return nil
}
