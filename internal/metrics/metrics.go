// Package metrics exports engine activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/arbor/internal/engine"
)

// Namespace prefixes every metric name.
const Namespace = "arbor"

// Source is the part of an engine the collector reads.
type Source interface {
	Stats() engine.Stats
	Generation() int64
}

// Collector reports an engine's counters on every scrape. Counters are
// read through Stats, which is safe from any goroutine.
type Collector struct {
	src Source

	builds     *prometheus.Desc
	discards   *prometheus.Desc
	commits    *prometheus.Desc
	units      *prometheus.Desc
	yields     *prometheus.Desc
	effects    *prometheus.Desc
	generation *prometheus.Desc
}

// NewCollector creates a collector for src. Every metric carries a
// session label.
func NewCollector(src Source, session string) *Collector {
	labels := prometheus.Labels{"session": session}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "engine", name), help, nil, labels)
	}
	return &Collector{
		src:        src,
		builds:     desc("builds_total", "Builds started."),
		discards:   desc("discards_total", "Builds discarded before commit."),
		commits:    desc("commits_total", "Commits applied to the host."),
		units:      desc("units_total", "Units of work performed."),
		yields:     desc("yields_total", "Times the work loop yielded to the scheduler."),
		effects:    desc("effects_total", "Layout and passive effects run."),
		generation: desc("generation", "Generation of the last commit."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.builds
	ch <- c.discards
	ch <- c.commits
	ch <- c.units
	ch <- c.yields
	ch <- c.effects
	ch <- c.generation
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.builds, s.Builds)
	counter(c.discards, s.Discards)
	counter(c.commits, s.Commits)
	counter(c.units, s.Units)
	counter(c.yields, s.Yields)
	counter(c.effects, s.Effects)
	ch <- prometheus.MustNewConstMetric(c.generation, prometheus.GaugeValue, float64(c.src.Generation()))
}

// NewRegistry returns a registry holding only c, so tests and commands do
// not share the global default registry.
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("register engine collector: %w", err)
	}
	return reg, nil
}

// Snapshot gathers g into a name to value map. Counters and gauges only;
// with several series per name the values are summed.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

// WriteText writes a snapshot as sorted "name value" lines.
func WriteText(w io.Writer, snap map[string]float64) error {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s %g\n", name, snap[name]); err != nil {
			return err
		}
	}
	return nil
}
