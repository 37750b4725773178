package enrich

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"backlog/internal/collection"
	"backlog/internal/genre"
	"backlog/internal/logging"
	"backlog/internal/services"
	"backlog/internal/services/llm"
)

// genreCache is the run-scoped normalized-title → genre mapping. It is the
// primary cost saver for collections carrying the same game on several
// platforms: the first classification of a title serves every later row.
type genreCache struct {
	mu      sync.Mutex
	entries map[string]genre.Genre
}

func newGenreCache() *genreCache {
	return &genreCache{entries: make(map[string]genre.Genre)}
}

func (c *genreCache) lookup(key string) (genre.Genre, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.entries[key]
	return g, ok
}

func (c *genreCache) store(key string, g genre.Genre) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = g
}

// classifier assigns genres to pending records in batched provider calls.
type classifier struct {
	completer llm.Completer
	vocab     *genre.Vocabulary
	batchSize int
	cache     *genreCache
	ledger    *CostLedger
	logger    *slog.Logger
}

func newClassifier(completer llm.Completer, vocab *genre.Vocabulary, batchSize int, cache *genreCache, ledger *CostLedger, logger *slog.Logger) *classifier {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &classifier{
		completer: completer,
		vocab:     vocab,
		batchSize: batchSize,
		cache:     cache,
		ledger:    ledger,
		logger:    logging.NewComponentLogger(logger, "classifier"),
	}
}

// pendingTitle groups the records in one run that share a normalized title, so
// a title is submitted at most once per run.
type pendingTitle struct {
	key     string
	title   string
	context promptGame
	records []*collection.Record
}

// run classifies every record in pending. Cache hits are assigned directly;
// the rest go out in batches. Batch failures mark their members Unknown via
// the post-pass; classification never aborts the run.
func (c *classifier) run(ctx context.Context, pending []*collection.Record) {
	order := make([]*pendingTitle, 0, len(pending))
	byKey := make(map[string]*pendingTitle, len(pending))

	for _, rec := range pending {
		key := collection.NormalizeName(rec.Title)
		if g, ok := c.cache.lookup(key); ok {
			rec.Genre = collection.SetCell(g)
			c.ledger.RecordCacheHit()
			c.logger.Debug("genre cache hit",
				logging.String("title", rec.Title),
				logging.String("genre", string(g)))
			continue
		}
		entry, ok := byKey[key]
		if !ok {
			entry = &pendingTitle{
				key:     key,
				title:   rec.Title,
				context: promptGame{Title: rec.Title, Platform: rec.Platform},
			}
			byKey[key] = entry
			order = append(order, entry)
		}
		entry.records = append(entry.records, rec)
	}

	for start := 0; start < len(order); start += c.batchSize {
		end := min(start+c.batchSize, len(order))
		c.classifyBatch(ctx, order[start:end])
	}
}

func (c *classifier) classifyBatch(ctx context.Context, batch []*pendingTitle) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	games := make([]promptGame, len(batch))
	for i, entry := range batch {
		games[i] = entry.context
	}
	userPrompt, err := buildGenreUserPrompt(c.vocab.Strings(), games)
	if err != nil {
		c.logger.Error("classification prompt build failed", logging.Error(err))
		return
	}

	content, usage, err := c.completer.CompleteJSON(ctx, genreSystemPrompt, userPrompt)
	if err != nil {
		c.ledger.RecordCall(usage, true)
		wrapped := services.Wrap(services.ErrProvider, "classifier", "complete", "", err)
		c.logger.Warn("classification batch failed, falling back to Unknown",
			logging.Int("batch_size", len(batch)),
			logging.Error(wrapped))
		return
	}

	var parsed promptResponse
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		c.ledger.RecordCall(usage, true)
		wrapped := services.Wrap(services.ErrValidation, "classifier", "decode", "", err)
		c.logger.Warn("classification response unreadable, falling back to Unknown",
			logging.Int("batch_size", len(batch)),
			logging.Error(wrapped))
		return
	}
	c.ledger.RecordCall(usage, false)

	if len(parsed.Genres) != len(batch) {
		c.logger.Warn("classification response length mismatch",
			logging.Int("want", len(batch)),
			logging.Int("got", len(parsed.Genres)))
	}

	for i, entry := range batch {
		var label genre.Genre = genre.Unknown
		if i < len(parsed.Genres) {
			// Closed-set validation: raw provider output never lands in a
			// record.
			label = c.vocab.Parse(parsed.Genres[i])
		}
		if label == genre.Unknown {
			c.logger.Debug("label outside vocabulary, coerced to Unknown",
				logging.String("title", entry.title))
			continue
		}
		c.cache.store(entry.key, label)
		for _, rec := range entry.records {
			rec.Genre = collection.SetCell(label)
		}
	}
}
