package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"backlog/internal/collection"
	"backlog/internal/hltb"
	"backlog/internal/logging"
	"backlog/internal/services"
)

const lookupTimeout = 15 * time.Second

// resolver fills completion-time fields from the provider's fuzzy search.
type resolver struct {
	searcher  hltb.Searcher
	threshold float64
	logger    *slog.Logger
}

func newResolver(searcher hltb.Searcher, threshold float64, logger *slog.Logger) *resolver {
	return &resolver{
		searcher:  searcher,
		threshold: threshold,
		logger:    logging.NewComponentLogger(logger, "resolver"),
	}
}

// resolve queries the provider for rec and, on an accepted match, fills every
// still-missing lookup field. It reports whether a match was accepted and
// whether the run fetched a completion time. Provider failures are returned
// for accounting but must be treated as a reject, never as a run abort.
func (r *resolver) resolve(ctx context.Context, rec *collection.Record) (matched, timeFetched bool, err error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	logger := r.logger.With(
		logging.String("title", rec.Title),
		logging.String("platform", rec.Platform),
		logging.String("request_id", requestID),
	)

	candidates, err := r.searcher.Search(ctx, rec.Title)
	if err != nil {
		marker := services.ErrProvider
		if ctx.Err() != nil {
			marker = services.ErrTimeout
		}
		wrapped := services.Wrap(marker, "resolver", "search", rec.Title, err)
		logger.Warn("completion-time lookup failed", logging.Error(wrapped))
		return false, false, wrapped
	}

	best := bestCandidate(candidates)
	if best == nil {
		logger.Info("no candidates returned")
		return false, false, nil
	}
	if best.Similarity < r.threshold {
		logger.Info("best candidate below threshold",
			logging.String("candidate", best.Name),
			logging.Float64("similarity", best.Similarity),
			logging.Float64("threshold", r.threshold))
		return false, false, nil
	}

	logger.Info("match accepted",
		logging.String("candidate", best.Name),
		logging.String("game_id", best.ID),
		logging.Float64("similarity", best.Similarity))

	if rec.GameID.NeedsFill() && best.ID != "" {
		rec.GameID = collection.SetCell(best.ID)
	}
	if rec.Year.NeedsFill() && best.ReleaseYear > 0 {
		rec.Year = collection.SetCell(best.ReleaseYear)
	}
	if rec.TimeToBeat.NeedsFill() && best.MainStoryHours > 0 {
		// Raw hours; the post-pass quantizes to the 0.25 grid.
		rec.TimeToBeat = collection.SetCell(best.MainStoryHours)
		timeFetched = true
	}
	if rec.Score.NeedsFill() && best.Score != nil {
		rec.Score = collection.SetCell(*best.Score)
	}
	return true, timeFetched, nil
}

func bestCandidate(candidates []hltb.Candidate) *hltb.Candidate {
	var best *hltb.Candidate
	for i := range candidates {
		if best == nil || candidates[i].Similarity > best.Similarity {
			best = &candidates[i]
		}
	}
	return best
}
