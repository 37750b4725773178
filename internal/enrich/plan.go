package enrich

import (
	"backlog/internal/collection"
	"backlog/internal/genre"
)

// plan records which work a record needs. It is computed once in the
// pre-pass so downstream stages never fetch for fields the user already
// filled.
type plan struct {
	// lookup means the record needs a completion-time provider call.
	lookup bool
	// lookupSkipped means lookup fields are missing but the platform is not
	// indexed by the provider, so the call is skipped outright.
	lookupSkipped bool
	// genre means the record needs a classification label.
	genre bool
}

func (p plan) none() bool { return !p.lookup && !p.lookupSkipped && !p.genre }

// planRecord computes the work set for one record. A field is eligible only
// when empty or explicitly unknown; populated fields are never candidates.
func planRecord(rec collection.Record, skipPlatforms map[string]struct{}) plan {
	var p plan
	needsLookupFields := rec.GameID.NeedsFill() ||
		rec.TimeToBeat.NeedsFill() ||
		rec.Score.NeedsFill() ||
		rec.Year.NeedsFill()
	if needsLookupFields {
		if _, skip := skipPlatforms[collection.NormalizeName(rec.Platform)]; skip {
			p.lookupSkipped = true
		} else {
			p.lookup = true
		}
	}
	p.genre = rec.Genre.NeedsFill()
	return p
}

// fillUnknowns marks every still-missing field of a processed record with the
// explicit unknown state, and quantizes a completion time the run fetched.
func fillUnknowns(rec *collection.Record, timeFetched bool) {
	if timeFetched {
		if value, ok := rec.TimeToBeat.Value(); ok {
			rec.TimeToBeat = collection.SetCell(QuantizeQuarter(value))
		}
	}
	if rec.GameID.NeedsFill() {
		rec.GameID = collection.UnknownCell[string]()
	}
	if rec.TimeToBeat.NeedsFill() {
		rec.TimeToBeat = collection.UnknownCell[float64]()
	}
	if rec.Score.NeedsFill() {
		rec.Score = collection.UnknownCell[int]()
	}
	if rec.Year.NeedsFill() {
		rec.Year = collection.UnknownCell[int]()
	}
	if rec.Genre.NeedsFill() {
		rec.Genre = collection.UnknownCell[genre.Genre]()
	}
}
