package enrich

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"backlog/internal/collection"
	"backlog/internal/genre"
	"backlog/internal/hltb"
	"backlog/internal/logging"
	"backlog/internal/services"
	"backlog/internal/services/llm"
)

// Options are the run knobs the orchestrator enforces.
type Options struct {
	SimilarityThreshold float64
	MaxConcurrent       int
	GenreBatchSize      int
	// MaxGames caps how many records a run may process; 0 means unbounded.
	MaxGames      int
	SkipPlatforms map[string]struct{}
	Rates         Rates
}

// Summary is the user-visible outcome of one run.
type Summary struct {
	TotalRecords      int
	DuplicatesDropped int
	Processed         int
	SkippedNoWork     int
	PassedThroughCap  int
	PlatformSkipped   int
	Matched           int
	Unmatched         int
	ProviderErrors    int
	GenresAssigned    int
	Cost              CostSummary
}

// Pipeline wires the enrichment stages together.
type Pipeline struct {
	opts      Options
	vocab     *genre.Vocabulary
	searcher  hltb.Searcher
	completer llm.Completer
	logger    *slog.Logger
}

// New constructs a pipeline. The logger may be nil.
func New(opts Options, vocab *genre.Vocabulary, searcher hltb.Searcher, completer llm.Completer, logger *slog.Logger) (*Pipeline, error) {
	if vocab == nil || vocab.Len() == 0 {
		return nil, errors.New("enrich: genre vocabulary required")
	}
	if searcher == nil {
		return nil, errors.New("enrich: completion-time searcher required")
	}
	if completer == nil {
		return nil, errors.New("enrich: classification completer required")
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.GenreBatchSize <= 0 {
		opts.GenreBatchSize = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		opts:      opts,
		vocab:     vocab,
		searcher:  searcher,
		completer: completer,
		logger:    logger,
	}, nil
}

// Run executes one enrichment pass over records and returns the final record
// sequence in input order plus the run summary. Per-record and per-batch
// provider failures are contained; the returned error is reserved for
// context cancellation.
func (p *Pipeline) Run(ctx context.Context, records []collection.Record) ([]collection.Record, Summary, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := p.logger.With(logging.String("run_id", runID))

	var summary Summary
	summary.TotalRecords = len(records)

	out, dropped := collection.Dedupe(records)
	summary.DuplicatesDropped = dropped
	if dropped > 0 {
		logger.Info("duplicates dropped", logging.Int("count", dropped))
	}

	// Run-scoped state: discarded with this invocation.
	ledger := NewCostLedger()
	cache := newGenreCache()

	limit := len(out)
	if p.opts.MaxGames > 0 && p.opts.MaxGames < limit {
		limit = p.opts.MaxGames
		summary.PassedThroughCap = len(out) - limit
		logger.Info("record cap applied",
			logging.Int("cap", limit),
			logging.Int("passed_through", summary.PassedThroughCap))
	}

	plans := make([]plan, limit)
	var lookups []*collection.Record
	var pendingGenre []*collection.Record
	for i := 0; i < limit; i++ {
		plans[i] = planRecord(out[i], p.opts.SkipPlatforms)
		if plans[i].none() {
			summary.SkippedNoWork++
			continue
		}
		summary.Processed++
		if plans[i].lookupSkipped {
			summary.PlatformSkipped++
			logger.Info("platform not indexed by provider, lookup skipped",
				logging.String("title", out[i].Title),
				logging.String("platform", out[i].Platform))
		}
		if plans[i].lookup {
			lookups = append(lookups, &out[i])
		}
		if plans[i].genre {
			pendingGenre = append(pendingGenre, &out[i])
		}
	}

	var matched, unmatched, failed atomic.Int64
	timeFetched := make([]bool, len(lookups))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		lookupGroup, lookupCtx := errgroup.WithContext(groupCtx)
		lookupGroup.SetLimit(p.opts.MaxConcurrent)
		resolver := newResolver(p.searcher, p.opts.SimilarityThreshold, logger)
		var done atomic.Int64
		for i := range lookups {
			i := i
			lookupGroup.Go(func() error {
				if err := lookupCtx.Err(); err != nil {
					return err
				}
				ok, fetched, err := resolver.resolve(lookupCtx, lookups[i])
				switch {
				case err != nil && lookupCtx.Err() != nil:
					return lookupCtx.Err()
				case err != nil:
					// Contained at record granularity: a provider failure is
					// a reject, not a run abort.
					failed.Add(1)
				case ok:
					matched.Add(1)
				default:
					unmatched.Add(1)
				}
				timeFetched[i] = fetched
				logger.Info("processed lookup",
					logging.Int64("done", done.Add(1)),
					logging.Int("total", len(lookups)))
				return nil
			})
		}
		return lookupGroup.Wait()
	})

	group.Go(func() error {
		classifier := newClassifier(p.completer, p.vocab, p.opts.GenreBatchSize, cache, ledger, logger)
		classifier.run(groupCtx, pendingGenre)
		return groupCtx.Err()
	})

	if err := group.Wait(); err != nil {
		return out, summary, err
	}

	summary.Matched = int(matched.Load())
	summary.Unmatched = int(unmatched.Load())
	summary.ProviderErrors = int(failed.Load())

	fetchedByRecord := make(map[*collection.Record]bool, len(lookups))
	for i, rec := range lookups {
		fetchedByRecord[rec] = timeFetched[i]
	}
	for i := 0; i < limit; i++ {
		if plans[i].none() {
			continue
		}
		fillUnknowns(&out[i], fetchedByRecord[&out[i]])
	}
	for _, rec := range pendingGenre {
		if rec.Genre.IsSet() {
			summary.GenresAssigned++
		}
	}

	summary.Cost = ledger.Summarize(p.opts.Rates)
	logger.Info("run complete",
		logging.Int("records", len(out)),
		logging.Int("matched", summary.Matched),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("provider_errors", summary.ProviderErrors),
		logging.Int("classifier_calls", summary.Cost.Calls),
		logging.Int("cache_hits", summary.Cost.CacheHits),
		logging.Int64("tokens", summary.Cost.InputTokens+summary.Cost.OutputTokens),
		logging.Float64("estimated_usd", summary.Cost.EstimatedUSD))
	return out, summary, nil
}
