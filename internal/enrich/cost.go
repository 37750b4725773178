package enrich

import (
	"sync"

	"backlog/internal/services/llm"
)

// Rates holds the per-token prices used for the run cost estimate.
type Rates struct {
	InputUSDPerMtok  float64
	OutputUSDPerMtok float64
}

// CostLedger accumulates classification usage for one run. It never
// influences pipeline decisions; observability only.
type CostLedger struct {
	mu        sync.Mutex
	calls     int
	failed    int
	cacheHits int
	usage     llm.Usage
}

// NewCostLedger returns an empty run-scoped ledger.
func NewCostLedger() *CostLedger {
	return &CostLedger{}
}

// RecordCall tallies one classifier call, success or failure, with the tokens
// it consumed.
func (l *CostLedger) RecordCall(usage llm.Usage, failed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if failed {
		l.failed++
	}
	l.usage.Add(usage)
}

// RecordCacheHit tallies a classification resolved from the run-scoped cache.
// Cache hits contribute zero tokens.
func (l *CostLedger) RecordCacheHit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cacheHits++
}

// CostSummary is the end-of-run usage report.
type CostSummary struct {
	Calls        int
	FailedCalls  int
	CacheHits    int
	InputTokens  int64
	OutputTokens int64
	EstimatedUSD float64
}

// Summarize converts the tallies to an estimated cost using the supplied
// rates.
func (l *CostLedger) Summarize(rates Rates) CostSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CostSummary{
		Calls:        l.calls,
		FailedCalls:  l.failed,
		CacheHits:    l.cacheHits,
		InputTokens:  l.usage.InputTokens,
		OutputTokens: l.usage.OutputTokens,
		EstimatedUSD: float64(l.usage.InputTokens)/1e6*rates.InputUSDPerMtok +
			float64(l.usage.OutputTokens)/1e6*rates.OutputUSDPerMtok,
	}
}
