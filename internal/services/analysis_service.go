// Package services orchestrates the ingestion pipeline and owns the active
// dataset reference.
package services

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/analytics"
	"salespulse/internal/config"
	"salespulse/internal/ingest"
	"salespulse/internal/metrics"
	"salespulse/pkg/contracts/domain"
)

// AnalysisService is the engine's public surface. It runs batch ingestion
// and exposes the aggregation views over the active dataset.
//
// The active CombinedDataset is held in an atomic pointer: a successful
// batch swaps the reference in one step, so concurrent readers observe
// either the previous complete snapshot or the new one, never a partially
// built dataset. Queries on a service with no dataset yet return their
// explicit empty markers (ok == false), not errors.
type AnalysisService struct {
	cfg     *config.Config
	logger  *slog.Logger
	parser  *ingest.Parser
	metrics *metrics.Pipeline
	current atomic.Pointer[domain.CombinedDataset]
}

// NewAnalysisService creates the service. A nil logger falls back to
// slog.Default; metrics may be nil when instrumentation is not wanted.
func NewAnalysisService(cfg *config.Config, logger *slog.Logger, m *metrics.Pipeline) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "analysis_service"))
	return &AnalysisService{
		cfg:     cfg,
		logger:  logger,
		parser:  ingest.NewParser(logger),
		metrics: m,
	}
}

// fileResult is one per-file ingestion outcome. Schema failures and
// timeouts leave dataset nil; the batch continues regardless.
type fileResult struct {
	dataset *domain.BranchDataset
	stats   ingest.CleanStats
	err     error
}

// LoadBranchFiles ingests a complete batch of branch spreadsheets and
// atomically installs the merged dataset as the active one. Files are
// parsed concurrently on a pool bounded by the configured worker count
// (default: available cores); the combiner runs only after every per-file
// result has arrived. Files that fail schema discovery or exceed the parse
// timeout contribute nothing and are not retried. Only a batch with zero
// valid transactions fails, with ErrEmptyDataset; a previously loaded
// dataset stays active in that case.
func (s *AnalysisService) LoadBranchFiles(ctx context.Context, files []domain.SourceFile) (*domain.CombinedDataset, error) {
	start := time.Now()
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i := range files {
		i := i
		g.Go(func() error {
			results[i] = s.ingestOne(gctx, files[i])
			return nil
		})
	}
	// Fan-in barrier: workers absorb their own failures, so Wait only
	// reports context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	datasets := make([]*domain.BranchDataset, 0, len(results))
	for i, res := range results {
		switch {
		case res.err != nil:
			s.logger.WarnContext(ctx, "branch file skipped",
				slog.String("file", files[i].Name),
				slog.String("error", res.err.Error()))
		case res.dataset != nil:
			datasets = append(datasets, res.dataset)
		}
	}

	combined := analytics.Combine(uuid.New(), datasets)
	if combined.IsEmpty() {
		s.logger.WarnContext(ctx, "batch produced no valid data",
			slog.Int("files", len(files)),
			slog.Duration("duration", time.Since(start)))
		return nil, ErrEmptyDataset
	}

	s.current.Store(combined)
	if s.metrics != nil {
		s.metrics.BatchesLoaded.Inc()
		s.metrics.DatasetRecords.Set(float64(combined.TotalRecords))
	}
	s.logger.InfoContext(ctx, "batch loaded",
		slog.String("batch_id", combined.BatchID.String()),
		slog.Int("files", len(files)),
		slog.Int("branches", len(combined.Branches)),
		slog.Int("records", combined.TotalRecords),
		slog.Duration("duration", time.Since(start)))
	return combined, nil
}

// ingestOne parses a single file under the per-file timeout. The excelize
// parse itself is not context-aware, so it runs in its own goroutine and a
// timeout abandons it; an abandoned file counts as a schema failure.
func (s *AnalysisService) ingestOne(ctx context.Context, file domain.SourceFile) fileResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Ingest.ParseTimeout)
	defer cancel()

	done := make(chan fileResult, 1)
	start := time.Now()
	go func() {
		ds, stats, err := s.parser.ParseBranchFile(file)
		done <- fileResult{dataset: ds, stats: stats, err: err}
	}()

	select {
	case <-ctx.Done():
		s.countFile(metrics.StatusTimeout)
		return fileResult{err: ctx.Err()}
	case res := <-done:
		if s.metrics != nil {
			s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
			for reason, n := range res.stats {
				s.metrics.RowsDropped.WithLabelValues(string(reason)).Add(float64(n))
			}
		}
		if res.err != nil {
			s.countFile(metrics.StatusSchemaError)
			return res
		}
		s.countFile(metrics.StatusOK)
		return res
	}
}

func (s *AnalysisService) countFile(status string) {
	if s.metrics != nil {
		s.metrics.FilesIngested.WithLabelValues(status).Inc()
	}
}

func (s *AnalysisService) workers() int {
	if s.cfg.Ingest.Workers > 0 {
		return s.cfg.Ingest.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Current returns the active dataset and whether one is loaded.
func (s *AnalysisService) Current() (*domain.CombinedDataset, bool) {
	ds := s.current.Load()
	return ds, !ds.IsEmpty()
}

// BranchRevenueComparison ranks branches by total revenue.
func (s *AnalysisService) BranchRevenueComparison() ([]analytics.BranchSummaryRow, bool) {
	ds, ok := s.Current()
	return analytics.BranchRevenueComparison(ds), ok
}

// ProductComparisonByBranch compares the top-N products across branches;
// topN <= 0 selects all products.
func (s *AnalysisService) ProductComparisonByBranch(topN int) ([]analytics.ProductComparisonRow, bool) {
	ds, ok := s.Current()
	return analytics.ProductComparisonByBranch(ds, topN), ok
}

// SalesByTimeAllBranches computes the five time-bucketed tables.
func (s *AnalysisService) SalesByTimeAllBranches() (analytics.TimeBuckets, bool) {
	ds, ok := s.Current()
	return analytics.SalesByTimeAllBranches(ds), ok
}

// CogsPerProductPerBranch breaks down COGS for the top-N products per branch.
func (s *AnalysisService) CogsPerProductPerBranch(topN int) ([]analytics.CogsRow, bool) {
	ds, ok := s.Current()
	return analytics.CogsPerProductPerBranch(ds, topN), ok
}

// BranchSummaryStats returns the whole-dataset headline statistics.
func (s *AnalysisService) BranchSummaryStats() (analytics.SummaryStats, bool) {
	ds, ok := s.Current()
	return analytics.BranchSummaryStats(ds), ok
}

// CrossBranchInsights returns the cross-branch insight bundle.
func (s *AnalysisService) CrossBranchInsights() (analytics.Insights, bool) {
	ds, ok := s.Current()
	return analytics.CrossBranchInsights(ds), ok
}

// PrepareDigestForAssistant returns the compact digest for the
// conversational summarizer. This is the only data surface that consumer
// may read.
func (s *AnalysisService) PrepareDigestForAssistant() (analytics.Digest, bool) {
	ds, ok := s.Current()
	return analytics.PrepareDigest(ds), ok
}
