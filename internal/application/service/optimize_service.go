// Package service coordinates optimization requests: it runs the allocator
// per channel, assembles reports, persists runs and records metrics.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/rankbudget/internal/domain/allocator"
	"github.com/eshaffer321/rankbudget/internal/domain/categorizer"
	"github.com/eshaffer321/rankbudget/internal/domain/curve"
	"github.com/eshaffer321/rankbudget/internal/domain/report"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

var (
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCategorizerUnavailable is returned when no LLM is configured.
	ErrCategorizerUnavailable = errors.New("keyword categorization is not configured")
)

// KeywordCategorizer assigns categories to keywords.
type KeywordCategorizer interface {
	Categorize(ctx context.Context, keywords []string) (*categorizer.Result, error)
}

// OptimizeRequest holds parameters for a greedy or uniform optimization.
type OptimizeRequest struct {
	PCBudget     float64
	MobileBudget float64
	Objective    string // ignored by uniform runs
	Keywords     []curve.Keyword
}

// AnalyzeRequest holds parameters for a fixed-rank analysis.
type AnalyzeRequest struct {
	PCRank     int
	MobileRank int
	Keywords   []curve.Keyword
}

// OptimizeResult is the combined outcome of a greedy optimization.
type OptimizeResult struct {
	RunID      string              `json:"run_id"`
	Persisted  bool                `json:"persisted"`
	Objective  allocator.Objective `json:"objective"`
	PC         *allocator.Result   `json:"pc"`
	Mobile     *allocator.Result   `json:"mobile"`
	Report     report.Combined     `json:"report"`
	DurationMS int64               `json:"duration_ms"`
}

// UniformResult is the combined outcome of a uniform-rank optimization.
type UniformResult struct {
	RunID      string                   `json:"run_id"`
	Persisted  bool                     `json:"persisted"`
	PC         *allocator.UniformResult `json:"pc"`
	Mobile     *allocator.UniformResult `json:"mobile"`
	Rows       []report.Row             `json:"rows"`
	Totals     report.Totals            `json:"totals"`
	DurationMS int64                    `json:"duration_ms"`
}

// AnalyzeResult wraps a fixed-rank analysis with its run ID.
type AnalyzeResult struct {
	RunID     string `json:"run_id"`
	Persisted bool   `json:"persisted"`
	*report.Analysis
}

// OptimizeService runs optimizations. Every call allocates fresh state, so a
// single service is safe for concurrent use.
type OptimizeService struct {
	cfg         *config.Config
	storage     storage.Repository
	categorizer KeywordCategorizer
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewOptimizeService creates a service. store, cat, m and logger may be nil.
func NewOptimizeService(
	cfg *config.Config,
	store storage.Repository,
	cat KeywordCategorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OptimizeService {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &OptimizeService{
		cfg:         cfg,
		storage:     store,
		categorizer: cat,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// Optimize runs Greedy Downgrade on both channels in parallel. If ctx is done
// by the time both channels finish, the result is discarded and nothing is
// stored.
func (s *OptimizeService) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	name := req.Objective
	if name == "" {
		name = s.cfg.Optimizer.Objective
	}
	objective, err := allocator.ParseObjective(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validateKeywords(req.Keywords); err != nil {
		return nil, err
	}

	start := s.now()
	var pc, mobile *allocator.Result

	var g errgroup.Group
	g.Go(func() error {
		r, err := allocator.GreedyDowngrade(curve.ForChannel(req.Keywords, curve.Desktop), req.PCBudget, objective)
		if err != nil {
			return fmt.Errorf("%s: %w", curve.Desktop.Label(), err)
		}
		pc = r
		return nil
	})
	g.Go(func() error {
		r, err := allocator.GreedyDowngrade(curve.ForChannel(req.Keywords, curve.Mobile), req.MobileBudget, objective)
		if err != nil {
			return fmt.Errorf("%s: %w", curve.Mobile.Label(), err)
		}
		mobile = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &OptimizeResult{
		RunID:      newRunID(),
		Objective:  objective,
		PC:         pc,
		Mobile:     mobile,
		Report:     report.Combine(pc, mobile),
		DurationMS: s.now().Sub(start).Milliseconds(),
	}

	for _, r := range []*allocator.Result{pc, mobile} {
		s.metrics.ObserveChannel(storage.KindGreedy, string(r.Channel), string(r.Status), r.Iterations, r.Overrun)
		s.observeRejected(r.Rejected)
		if r.Status == allocator.StatusFloorFallback {
			s.logger.Warn("budget exhausted downgrades, floor assignment returned",
				"run_id", result.RunID,
				"channel", r.Channel.Label(),
				"budget", r.Budget,
				"total_cost", r.TotalCost,
				"overrun", r.Overrun)
		}
	}
	s.metrics.ObserveDuration(storage.KindGreedy, s.now().Sub(start))

	s.logger.Info("optimization completed",
		"run_id", result.RunID,
		"objective", objective,
		"keywords", len(req.Keywords),
		"pc_status", pc.Status,
		"pc_steps", pc.Iterations,
		"mobile_status", mobile.Status,
		"mobile_steps", mobile.Iterations,
		"total_cost", result.Report.Totals.Cost)

	run := &storage.Run{
		ID:           result.RunID,
		Kind:         storage.KindGreedy,
		Objective:    string(objective),
		KeywordCount: len(req.Keywords),
		TotalCost:    result.Report.Totals.Cost,
		TotalClicks:  result.Report.Totals.Clicks,
		TotalImpr:    result.Report.Totals.Impressions,
		DurationMS:   result.DurationMS,
		Channels: []storage.RunChannel{
			greedyChannel(pc, result.Report.PC),
			greedyChannel(mobile, result.Report.Mobile),
		},
	}
	result.Persisted = s.persist(ctx, run, result)

	return result, nil
}

// Uniform picks one rank per channel for every keyword.
func (s *OptimizeService) Uniform(ctx context.Context, req OptimizeRequest) (*UniformResult, error) {
	if err := validateKeywords(req.Keywords); err != nil {
		return nil, err
	}

	start := s.now()
	var pc, mobile *allocator.UniformResult

	var g errgroup.Group
	g.Go(func() error {
		r, err := allocator.UniformRankByBudget(curve.ForChannel(req.Keywords, curve.Desktop), req.PCBudget)
		if err != nil {
			return fmt.Errorf("%s: %w", curve.Desktop.Label(), err)
		}
		pc = r
		return nil
	})
	g.Go(func() error {
		r, err := allocator.UniformRankByBudget(curve.ForChannel(req.Keywords, curve.Mobile), req.MobileBudget)
		if err != nil {
			return fmt.Errorf("%s: %w", curve.Mobile.Label(), err)
		}
		mobile = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &UniformResult{
		RunID:      newRunID(),
		PC:         pc,
		Mobile:     mobile,
		DurationMS: s.now().Sub(start).Milliseconds(),
	}
	result.Rows, result.Totals = report.Join(pc.Picks, mobile.Picks)

	for _, r := range []*allocator.UniformResult{pc, mobile} {
		s.metrics.ObserveChannel(storage.KindUniform, string(r.Channel), uniformStatus(r), -1, 0)
		s.observeRejected(r.Rejected)
	}
	s.metrics.ObserveDuration(storage.KindUniform, s.now().Sub(start))

	s.logger.Info("uniform optimization completed",
		"run_id", result.RunID,
		"keywords", len(req.Keywords),
		"pc_rank", pc.Rank,
		"pc_feasible", pc.Feasible,
		"mobile_rank", mobile.Rank,
		"mobile_feasible", mobile.Feasible)

	run := &storage.Run{
		ID:           result.RunID,
		Kind:         storage.KindUniform,
		KeywordCount: len(req.Keywords),
		TotalCost:    result.Totals.Cost,
		TotalClicks:  result.Totals.Clicks,
		TotalImpr:    result.Totals.Impressions,
		DurationMS:   result.DurationMS,
		Channels: []storage.RunChannel{
			uniformChannel(pc),
			uniformChannel(mobile),
		},
	}
	result.Persisted = s.persist(ctx, run, result)

	return result, nil
}

// Analyze reports every keyword at one fixed rank per channel.
func (s *OptimizeService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if err := validateKeywords(req.Keywords); err != nil {
		return nil, err
	}

	start := s.now()
	analysis, err := report.Analyze(req.Keywords, req.PCRank, req.MobileRank)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.metrics.ObserveDuration(storage.KindAnalyze, s.now().Sub(start))

	result := &AnalyzeResult{RunID: newRunID(), Analysis: analysis}

	var pcCost, mobileCost float64
	for _, row := range analysis.Keywords {
		if row.PC != nil {
			pcCost += row.PC.Cost
		}
		if row.Mobile != nil {
			mobileCost += row.Mobile.Cost
		}
	}
	run := &storage.Run{
		ID:           result.RunID,
		Kind:         storage.KindAnalyze,
		KeywordCount: analysis.Summary.TotalKeywords,
		TotalCost:    analysis.Summary.TotalCost,
		TotalClicks:  analysis.Summary.TotalClicks,
		DurationMS:   s.now().Sub(start).Milliseconds(),
		Channels: []storage.RunChannel{
			{Channel: string(curve.Desktop), Rank: req.PCRank, TotalCost: pcCost, Keywords: len(req.Keywords)},
			{Channel: string(curve.Mobile), Rank: req.MobileRank, TotalCost: mobileCost, Keywords: len(req.Keywords)},
		},
	}
	result.Persisted = s.persist(ctx, run, result)

	return result, nil
}

// Categorize assigns one category to every keyword.
func (s *OptimizeService) Categorize(ctx context.Context, keywords []string) (*categorizer.Result, error) {
	if s.categorizer == nil {
		return nil, ErrCategorizerUnavailable
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords", ErrInvalidInput)
	}

	result, err := s.categorizer.Categorize(ctx, keywords)
	if err != nil {
		s.logger.Error("keyword categorization failed", "keywords", len(keywords), "error", err)
		return nil, err
	}

	cached := 0
	for _, a := range result.Assignments {
		if a.Cached {
			cached++
		}
	}
	s.metrics.ObserveCategorized(cached, len(result.Assignments)-cached)
	s.logger.Info("keywords categorized",
		"keywords", len(keywords),
		"categories", len(result.Categories()),
		"cached", cached)

	return result, nil
}

// CategorizerEnabled reports whether Categorize can succeed.
func (s *OptimizeService) CategorizerEnabled() bool {
	return s.categorizer != nil
}

// Health describes the optional dependencies of the service.
type Health struct {
	StorageEnabled     bool
	SchemaVersion      int64
	CategorizerEnabled bool
}

// Health reports storage and categorizer availability. The error is the
// storage failure, if any; the other fields are still filled in.
func (s *OptimizeService) Health() (Health, error) {
	h := Health{
		StorageEnabled:     s.storage != nil,
		CategorizerEnabled: s.CategorizerEnabled(),
	}
	if s.storage == nil {
		return h, nil
	}
	version, err := s.storage.SchemaVersion()
	if err != nil {
		return h, fmt.Errorf("failed to read schema version: %w", err)
	}
	h.SchemaVersion = version
	return h, nil
}

// ListRuns returns recent stored runs.
func (s *OptimizeService) ListRuns(ctx context.Context, filters storage.RunFilters) ([]*storage.Run, error) {
	if s.storage == nil {
		return []*storage.Run{}, nil
	}
	return s.storage.ListRuns(ctx, filters)
}

// GetRun returns one stored run.
func (s *OptimizeService) GetRun(ctx context.Context, id string) (*storage.Run, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("run %s: %w", id, storage.ErrNotFound)
	}
	return s.storage.GetRun(ctx, id)
}

// persist stores run with doc as its result document. Storage failures are
// logged and do not fail the request.
func (s *OptimizeService) persist(ctx context.Context, run *storage.Run, doc any) bool {
	if s.storage == nil || !s.cfg.Optimizer.Persist {
		return false
	}

	run.CreatedAt = s.now().UTC()
	payload, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("failed to encode run", "run_id", run.ID, "error", err)
		return false
	}
	run.Result = payload

	if err := s.storage.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to save run", "run_id", run.ID, "kind", run.Kind, "error", err)
		return false
	}
	return true
}

func (s *OptimizeService) observeRejected(diags []curve.Diagnostic) {
	for _, d := range diags {
		s.metrics.ObserveRejected(string(d.Channel), string(d.Reason))
		s.logger.Debug("keyword rejected", "keyword", d.Keyword, "channel", d.Channel.Label(), "reason", d.Reason, "detail", d.Detail)
	}
}

func validateKeywords(keywords []curve.Keyword) error {
	if len(keywords) == 0 {
		return fmt.Errorf("%w: no keywords", ErrInvalidInput)
	}
	return nil
}

func greedyChannel(r *allocator.Result, summary *report.ChannelSummary) storage.RunChannel {
	return storage.RunChannel{
		Channel:    string(r.Channel),
		Budget:     r.Budget,
		Status:     string(r.Status),
		TotalCost:  r.TotalCost,
		Overrun:    r.Overrun,
		Keywords:   len(r.Picks),
		Downgraded: summary.Downgraded,
		Rejected:   len(r.Rejected),
	}
}

func uniformChannel(r *allocator.UniformResult) storage.RunChannel {
	return storage.RunChannel{
		Channel:   string(r.Channel),
		Budget:    r.Budget,
		Status:    uniformStatus(r),
		Rank:      r.Rank,
		TotalCost: r.TotalCost,
		Keywords:  len(r.Picks),
		Rejected:  len(r.Rejected),
	}
}

func uniformStatus(r *allocator.UniformResult) string {
	if r.Feasible {
		return "feasible"
	}
	return "infeasible"
}

// newRunID returns a time-ordered identifier.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
