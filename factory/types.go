package factory

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/logger"
	"github.com/katalvlaran/synthpop/metrics"
	"github.com/katalvlaran/synthpop/person"
)

// Operation names used in errors, logs and metrics.
const (
	OpCouple          = "couple"
	OpCoupleWithChild = "couple_with_child"
	OpOneParent       = "one_parent"
	OpOtherFamily     = "other_family"
)

var (
	// ErrNotEnoughPersons indicates a formation could not produce the requested units.
	ErrNotEnoughPersons = errors.New("factory: not enough persons")

	// ErrInvalidCount indicates a negative unit count.
	ErrInvalidCount = errors.New("factory: count must be >= 0")
)

// NotEnoughPersonsError reports a formation shortfall.
type NotEnoughPersonsError struct {
	Op        string
	Requested int
	// Families holds the units formed before the operation gave up.
	Families []*family.Family
	// Cause is the extras handler error, if the top-up failed.
	Cause error
}

// Formed returns the number of units formed before the failure.
func (e *NotEnoughPersonsError) Formed() int { return len(e.Families) }

func (e *NotEnoughPersonsError) Error() string {
	msg := fmt.Sprintf("factory: not enough persons for %s: formed %d of %d", e.Op, e.Formed(), e.Requested)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches ErrNotEnoughPersons.
func (e *NotEnoughPersonsError) Is(target error) bool { return target == ErrNotEnoughPersons }

// Unwrap returns the extras handler error, if any.
func (e *NotEnoughPersonsError) Unwrap() error { return e.Cause }

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger. Default: no-op.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Factory) { f.log = logger.OrNop(l) }
}

// WithMetrics sets the metrics sink. Default: none.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Factory) { f.metrics = m }
}

// Factory forms families over one registry. Family ids are assigned 1, 2, 3, ...
// in the order families are committed.
type Factory struct {
	reg     *person.Registry
	extras  extras.Handler
	log     *zap.SugaredLogger
	metrics *metrics.Metrics

	nextID family.ID
}

// New returns a Factory drawing top-ups from h. A nil h behaves like extras.Empty.
func New(reg *person.Registry, h extras.Handler, opts ...Option) *Factory {
	if h == nil {
		h = extras.Empty{}
	}
	f := &Factory{reg: reg, extras: h, log: logger.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the registry the factory links persons in.
func (f *Factory) Registry() *person.Registry { return f.reg }
