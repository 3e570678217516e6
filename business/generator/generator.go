package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
	"sharpPicks/pkg/utils"
)

// ToolLayer is the LLM + research collaborator. One call returns the raw
// picks the model produced for the prompt.
type ToolLayer interface {
	GeneratePicks(ctx context.Context, system, user string) ([]domain.RawPick, error)
}

type PickStore interface {
	Write(ctx context.Context, picks []domain.Pick) error
	Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error)
}

type RunRecorder interface {
	SaveRun(ctx context.Context, run *domain.GenerationRun) error
}

type PoolInvalidator interface {
	InvalidatePool(ctx context.Context, runDate string, category domain.Category) error
}

type RunPublisher interface {
	PublishRun(ctx context.Context, run *domain.GenerationRun) error
}

type RunRequest struct {
	Date           string          `json:"date"`
	Category       domain.Category `json:"category"`
	TargetPoolSize int             `json:"targetPoolSize,omitempty"`
	PicksOverride  int             `json:"picksOverride,omitempty"`
	Events         []domain.Event  `json:"events,omitempty"`
}

type RiskShare struct {
	Level     domain.RiskLevel `json:"risk_level"`
	Count     int              `json:"count"`
	ActualPct float64          `json:"actual_pct"`
	TargetPct int              `json:"target_pct"`
}

type RunResult struct {
	Run          domain.GenerationRun `json:"run"`
	Picks        []domain.Pick        `json:"picks"`
	Distribution []RiskShare          `json:"distribution"`
}

type Generator struct {
	tools       ToolLayer
	store       PickStore
	recorder    RunRecorder
	invalidator PoolInvalidator
	publisher   RunPublisher
	cfg         Config
	normalizer  *normalizer
	now         func() time.Time
}

// NewGenerator wires a generator. recorder, invalidator and publisher are
// optional.
func NewGenerator(tools ToolLayer, store PickStore, recorder RunRecorder, invalidator PoolInvalidator, publisher RunPublisher, cfg Config) *Generator {
	if cfg.TargetPoolSize <= 0 {
		cfg.TargetPoolSize = defaultTargetPoolSize
	}
	if !cfg.Distribution.Valid() {
		cfg.Distribution = domain.DefaultRiskDistribution()
	}
	return &Generator{
		tools:       tools,
		store:       store,
		recorder:    recorder,
		invalidator: invalidator,
		publisher:   publisher,
		cfg:         cfg,
		normalizer:  newNormalizer(),
		now:         time.Now,
	}
}

// Run generates and persists the pool for one (date, category). Nothing is
// written unless the tool layer returns a parseable response.
func (g *Generator) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, req.Category)
	}
	runDay, err := domain.ParseRunDate(req.Date)
	if err != nil {
		return nil, err
	}
	runDate := domain.FormatRunDate(runDay)

	target := g.poolSize(req)

	runID := uuid.NewString()
	ctx = utils.WithTraceID(ctx, runID)

	run := &domain.GenerationRun{
		ID:             runID,
		RunDate:        runDate,
		Category:       req.Category,
		Status:         domain.RunRunning,
		TargetPoolSize: target,
		StartedAt:      g.now().UTC(),
	}
	g.saveRun(ctx, run)

	picks, err := g.generate(ctx, run, req.Events)
	if err != nil {
		g.finish(ctx, run, err)
		return &RunResult{Run: *run}, err
	}

	g.finish(ctx, run, nil)

	if g.invalidator != nil {
		if err := g.invalidator.InvalidatePool(ctx, runDate, req.Category); err != nil {
			logger.Warn("pool cache invalidation failed", "run_id", runID, "category", req.Category, "error", err)
		}
	}
	if g.publisher != nil {
		if err := g.publisher.PublishRun(ctx, run); err != nil {
			logger.Warn("generation event publish failed", "run_id", runID, "category", req.Category, "error", err)
		}
	}

	return &RunResult{
		Run:          *run,
		Picks:        picks,
		Distribution: distribution(picks, g.cfg.Distribution),
	}, nil
}

func (g *Generator) generate(ctx context.Context, run *domain.GenerationRun, events []domain.Event) ([]domain.Pick, error) {
	prompt := BuildPrompt(run.Category, run.RunDate, run.TargetPoolSize, g.cfg.Distribution, events)

	var raw []domain.RawPick
	attempts, err := g.cfg.Retry.Do(ctx, func(actx context.Context) error {
		out, callErr := g.tools.GeneratePicks(actx, prompt.System, prompt.User)
		if callErr != nil {
			logger.Warn("tool layer call failed", "run_id", run.ID, "category", run.Category, "error", callErr)
			return callErr
		}
		raw = out
		return nil
	})
	run.Attempts = attempts
	ToolLayerAttemptsHistogram.WithLabelValues(string(run.Category)).Observe(float64(attempts))
	if err != nil {
		return nil, fmt.Errorf("generate %s picks: %w", run.Category, err)
	}
	run.Received = len(raw)

	existing, err := g.store.Query(ctx, run.RunDate, run.Category, "")
	if err != nil {
		return nil, err
	}
	existingKeys := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		existingKeys[p.NaturalKey()] = struct{}{}
	}

	eligibility := NewEventEligibility(events)
	now := g.now().UTC()

	valid := make([]domain.Pick, 0, len(raw))
	for _, r := range raw {
		if r.DecodeErr != nil {
			g.drop(run, "invalid", r.DecodeErr)
			continue
		}
		ev, ok := eligibility.Match(r)
		if !ok {
			g.drop(run, "ineligible", &domain.ValidationError{Field: "subject", Reason: "matches no eligible event", Subject: r.Subject})
			continue
		}
		p, err := g.normalizer.normalize(r, run.RunDate, run.Category, ev, now)
		if err != nil {
			g.drop(run, "invalid", err)
			continue
		}
		valid = append(valid, p)
	}

	kept, overflow := capPool(valid, existingKeys, run.TargetPoolSize)
	for _, p := range overflow {
		g.drop(run, "over_ceiling", &domain.ValidationError{Field: "pool", Reason: "exceeds target pool size", Subject: p.Subject})
	}
	if dupes := len(valid) - len(kept) - len(overflow); dupes > 0 {
		run.Dropped += dupes
		DroppedPicksTotal.WithLabelValues(string(run.Category), "duplicate").Add(float64(dupes))
	}

	if len(kept) > 0 {
		if err := g.store.Write(ctx, kept); err != nil {
			return nil, err
		}
	}

	run.Accepted = len(kept)
	counts := riskCounts(kept)
	run.RiskCounts = datatypes.JSONMap{}
	for _, level := range domain.RiskLevels {
		run.RiskCounts[string(level)] = counts[level]
		GeneratedPicksTotal.WithLabelValues(string(run.Category), string(level)).Add(float64(counts[level]))
	}

	logger.Info("pick pool generated",
		"run_id", run.ID,
		"date", run.RunDate,
		"category", run.Category,
		"received", run.Received,
		"accepted", run.Accepted,
		"dropped", run.Dropped,
		"low", counts[domain.RiskLow],
		"medium", counts[domain.RiskMedium],
		"high", counts[domain.RiskHigh],
	)

	return kept, nil
}

func (g *Generator) drop(run *domain.GenerationRun, reason string, err error) {
	run.Dropped++
	DroppedPicksTotal.WithLabelValues(string(run.Category), reason).Inc()
	logger.Warn("pick dropped", "run_id", run.ID, "category", run.Category, "reason", reason, "error", err)
}

func (g *Generator) finish(ctx context.Context, run *domain.GenerationRun, runErr error) {
	finished := g.now().UTC()
	run.FinishedAt = &finished
	run.Status = domain.RunSucceeded
	if runErr != nil {
		run.Status = domain.RunFailed
		run.Error = runErr.Error()
		logger.Error("generation run failed", "run_id", run.ID, "date", run.RunDate, "category", run.Category, "attempts", run.Attempts, "error", runErr)
	}
	GenerationRunsTotal.WithLabelValues(string(run.Category), string(run.Status)).Inc()
	g.saveRun(context.WithoutCancel(ctx), run)
}

func (g *Generator) saveRun(ctx context.Context, run *domain.GenerationRun) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.SaveRun(ctx, run); err != nil {
		logger.Warn("generation run record failed", "run_id", run.ID, "error", err)
	}
}

func (g *Generator) poolSize(req RunRequest) int {
	switch {
	case req.PicksOverride > 0:
		return req.PicksOverride
	case req.TargetPoolSize > 0:
		return req.TargetPoolSize
	default:
		return g.cfg.TargetPoolSize
	}
}

// RunAll generates every category concurrently. A failed category never
// cancels the others; all failures are joined into the returned error.
func (g *Generator) RunAll(ctx context.Context, req RunRequest, categories []domain.Category) ([]*RunResult, error) {
	if len(categories) == 0 {
		categories = domain.Categories
	}

	results := make([]*RunResult, len(categories))
	errs := make([]error, len(categories))

	var eg errgroup.Group
	for i, c := range categories {
		eg.Go(func() error {
			r := req
			r.Category = c
			res, err := g.Run(ctx, r)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", c, err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return results, errors.Join(errs...)
}

func riskCounts(picks []domain.Pick) map[domain.RiskLevel]int {
	counts := make(map[domain.RiskLevel]int, len(domain.RiskLevels))
	for _, p := range picks {
		counts[p.RiskLevel]++
	}
	return counts
}

func distribution(picks []domain.Pick, target domain.RiskDistribution) []RiskShare {
	counts := riskCounts(picks)
	out := make([]RiskShare, 0, len(domain.RiskLevels))
	for _, level := range domain.RiskLevels {
		share := RiskShare{Level: level, Count: counts[level], TargetPct: target.Percent(level)}
		if len(picks) > 0 {
			share.ActualPct = float64(counts[level]) * 100 / float64(len(picks))
		}
		out = append(out, share)
	}
	return out
}
