// Package metrics exposes Prometheus counters for family formation.
package metrics

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks formed families, extras draws, shortfalls and attachment
// misses. A nil *Metrics is valid and records nothing.
type Metrics struct {
	FamiliesFormed *prometheus.CounterVec
	ExtrasDrawn    *prometheus.CounterVec
	Shortfalls     *prometheus.CounterVec
	AttachMisses   prometheus.Counter
	RunDuration    prometheus.Histogram
}

// New registers all formation metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		FamiliesFormed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "synthpop_families_formed_total",
			Help: "Total number of family units formed, by family type",
		}, []string{"type"}),
		ExtrasDrawn: f.NewCounterVec(prometheus.CounterOpts{
			Name: "synthpop_extras_drawn_total",
			Help: "Total number of persons drawn from the extras distribution, by relationship status",
		}, []string{"status"}),
		Shortfalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "synthpop_shortfalls_total",
			Help: "Total number of formation operations that failed with not enough persons",
		}, []string{"operation"}),
		AttachMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "synthpop_attach_misses_total",
			Help: "Total number of child attachment attempts that found no compatible child",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "synthpop_run_duration_seconds",
			Help:    "Duration of a full synthesis run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// IncFamily records one formed family of the given type.
func (m *Metrics) IncFamily(familyType string) {
	if m == nil {
		return
	}
	m.FamiliesFormed.WithLabelValues(familyType).Inc()
}

// AddExtras records n persons drawn with the given status.
func (m *Metrics) AddExtras(status string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ExtrasDrawn.WithLabelValues(status).Add(float64(n))
}

// IncShortfall records a NotEnoughPersons failure of op.
func (m *Metrics) IncShortfall(op string) {
	if m == nil {
		return
	}
	m.Shortfalls.WithLabelValues(op).Inc()
}

// IncAttachMiss records an attachment attempt that found no child.
func (m *Metrics) IncAttachMiss() {
	if m == nil {
		return
	}
	m.AttachMisses.Inc()
}

// ObserveRun records the duration of a run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(start time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// Sample is one counter value read back from a gatherer.
type Sample struct {
	Name   string
	Labels string // "k=v,k2=v2" in label order, empty when unlabelled
	Value  float64
}

// Counters gathers g and returns every counter sample, in gather order.
// Histograms and gauges are skipped.
func Counters(g prometheus.Gatherer) ([]Sample, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "metrics: gather")
	}
	var out []Sample
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: strings.Join(labels, ","),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	return out, nil
}

// WriteFile writes everything g gathers to path in the text exposition
// format, as read by the node exporter textfile collector.
func WriteFile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
