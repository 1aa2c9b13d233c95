package synthesis

import (
	"context"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/factory"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/feasibility"
	"github.com/katalvlaran/synthpop/logger"
	"github.com/katalvlaran/synthpop/metrics"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default: no-op.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(rn *Runner) { rn.log = logger.OrNop(l) }
}

// WithMetrics sets the metrics sink shared by all attempts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rn *Runner) { rn.metrics = m }
}

// Runner executes a Plan.
type Runner struct {
	plan    Plan
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
}

// New returns a Runner for plan.
func New(plan Plan, opts ...Option) *Runner {
	rn := &Runner{plan: plan, log: logger.Nop()}
	for _, opt := range opts {
		opt(rn)
	}
	return rn
}

// Result is the outcome of one successful attempt.
type Result struct {
	RunID   string
	Seed    int64
	Attempt int

	Registry *person.Registry
	// Families is ordered by family id.
	Families []*family.Family
	// Leftover holds every pooled person no family took.
	Leftover *Pools
	// Bounds maps an operation to its max-flow attachment bound.
	Bounds map[string]int
}

// AttemptSeed returns the seed of attempt i. Attempt 0 uses base itself.
func AttemptSeed(base int64, attempt int) int64 {
	if attempt == 0 {
		return rng.New(base).Seed()
	}
	return rng.DeriveSeed(base, uint64(attempt))
}

// Run executes up to Plan.Attempts independent attempts, at most
// Plan.Parallel at a time, and returns the successful attempt with the
// lowest index. When every attempt fails it returns the error of attempt 0.
func (rn *Runner) Run(ctx context.Context) (*Result, error) {
	attempts := max(rn.plan.Attempts, 1)
	if attempts == 1 {
		return rn.RunOnce(ctx, 0, AttemptSeed(rn.plan.Seed, 0))
	}

	results := make([]*Result, attempts)
	errs := make([]error, attempts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(rn.plan.Parallel, 1))
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			results[i], errs[i] = rn.RunOnce(gctx, i, AttemptSeed(rn.plan.Seed, i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, res := range results {
		if errs[i] == nil {
			rn.log.Infow("attempt selected", logger.FieldAttempt, i, logger.FieldRunID, res.RunID)
			return res, nil
		}
	}
	return nil, errors.WithDetailf(errs[0], "all %d attempts failed", attempts)
}

// RunOnce executes a single attempt with its own registry, pools and stream.
func (rn *Runner) RunOnce(ctx context.Context, attempt int, seed int64) (*Result, error) {
	start := time.Now()
	defer rn.metrics.ObserveRun(start)

	res := &Result{
		RunID:   uuid.NewString(),
		Seed:    seed,
		Attempt: attempt,
		Bounds:  make(map[string]int),
	}
	log := rn.log.With(logger.FieldRunID, res.RunID, logger.FieldSeed, seed, logger.FieldAttempt, attempt)

	var regOpts []person.RegistryOption
	if len(rn.plan.Bands) > 0 {
		regOpts = append(regOpts, person.WithBands(rn.plan.Bands))
	}
	res.Registry = person.NewRegistry(regOpts...)
	r := rng.New(seed)

	pools, err := BuildPools(r, res.Registry, rn.plan.Cells)
	if err != nil {
		return nil, err
	}
	res.Leftover = pools

	source := rn.plan.Extras
	if source == nil {
		source = NoExtras
	}
	h, err := source(res.Registry)
	if err != nil {
		return nil, errors.Wrap(err, "synthesis: extras")
	}

	f := factory.New(res.Registry, h, factory.WithLogger(log), factory.WithMetrics(rn.metrics))
	t := rn.plan.Targets
	fail := func(err error) (*Result, error) {
		return nil, errors.Wrapf(err, "synthesis: run %s", res.RunID)
	}

	couples, err := f.FormCoupleFamilyBasicUnits(r, t.CoupleOnly+t.CoupleWithChildren, &pools.MarriedMales, &pools.MarriedFemales)
	if err != nil {
		return fail(err)
	}

	if err := rn.bound(ctx, log, res, factory.OpCoupleWithChild, youngestParents(couples), pools.Children, t.CoupleWithChildren); err != nil {
		return fail(err)
	}
	withChildren, err := f.FormCoupleWithChildFamilyBasicUnits(r, t.CoupleWithChildren, &couples, &pools.Children)
	if err != nil {
		return fail(err)
	}

	if err := rn.bound(ctx, log, res, factory.OpOneParent, ranges(pools.LoneParents), pools.Children, t.OneParent); err != nil {
		return fail(err)
	}
	oneParent, err := f.FormOneParentBasicUnits(r, t.OneParent, &pools.LoneParents, &pools.Children)
	if err != nil {
		return fail(err)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	others, err := f.FormOtherFamilyBasicUnits(r, t.OtherFamily, &pools.Relatives)
	if err != nil {
		return fail(err)
	}

	res.Families = slices.Concat(couples, withChildren, oneParent, others)
	slices.SortFunc(res.Families, func(a, b *family.Family) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	log.Infow("run complete",
		logger.FieldCount, len(res.Families),
		"leftover", pools.Len(),
		"duration", time.Since(start),
	)
	return res, nil
}

// bound records the max-flow attachment bound for op and warns when it is
// below target. Persons still to be drawn from extras are not counted.
func (rn *Runner) bound(ctx context.Context, log *zap.SugaredLogger, res *Result, op string, parents []demography.AgeRange, children person.Pool, target int) error {
	n, err := feasibility.MaxAttachable(ctx, parents, ranges(children))
	if err != nil {
		return err
	}
	res.Bounds[op] = n
	if n < target {
		log.Warnw("attachable pairs below target before extras",
			logger.FieldOperation, op, logger.FieldBound, n, logger.FieldRequested, target)
		return nil
	}
	log.Debugw("attachment bound", logger.FieldOperation, op, logger.FieldBound, n)
	return nil
}

func ranges(pool person.Pool) []demography.AgeRange {
	out := make([]demography.AgeRange, len(pool))
	for i, p := range pool {
		out[i] = p.AgeRange
	}
	return out
}

func youngestParents(fams []*family.Family) []demography.AgeRange {
	out := make([]demography.AgeRange, 0, len(fams))
	for _, f := range fams {
		if p, ok := f.YoungestParent(); ok {
			out = append(out, p.AgeRange)
		}
	}
	return out
}
