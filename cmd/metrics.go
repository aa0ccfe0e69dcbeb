package cmd

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// writeMetrics exports one gauge per report and metric to a Prometheus
// textfile, suitable for the node exporter textfile collector.
func writeMetrics(path string, reports []*compileReport) error {
	reg := prometheus.NewRegistry()
	labels := []string{"assembly"}
	slices := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lsqecc_slices",
		Help: "Slices in the compiled timeline.",
	}, labels)
	scheduled := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lsqecc_scheduled_instructions",
		Help: "Instructions committed before scheduling stopped.",
	}, labels)
	idle := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lsqecc_idle_slices",
		Help: "Slices inserted while waiting for magic states.",
	}, labels)
	routing := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lsqecc_routing_cells",
		Help: "Routing cells summed over every slice.",
	}, labels)
	failed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lsqecc_failed",
		Help: "1 when an instruction could not be scheduled.",
	}, labels)
	reg.MustRegister(slices, scheduled, idle, routing, failed)

	for _, r := range reports {
		slices.WithLabelValues(r.Assembly).Set(float64(len(r.Slices)))
		scheduled.WithLabelValues(r.Assembly).Set(float64(r.Scheduled))
		idle.WithLabelValues(r.Assembly).Set(float64(r.idleSlices()))
		routing.WithLabelValues(r.Assembly).Set(float64(r.routingCells()))
		if r.Failure != nil {
			failed.WithLabelValues(r.Assembly).Set(1)
		} else {
			failed.WithLabelValues(r.Assembly).Set(0)
		}
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// metricsSink keeps the latest report per assembly so a partial recompile
// (one changed file under --watch) still exports every assembly.
type metricsSink struct {
	path   string
	latest map[string]*compileReport
}

func newMetricsSink(path string) *metricsSink {
	return &metricsSink{path: path, latest: make(map[string]*compileReport)}
}

// record replaces the stored reports for the given assemblies and rewrites
// the textfile with all of them.
func (m *metricsSink) record(reports []*compileReport) error {
	for _, r := range reports {
		m.latest[r.Assembly] = r
	}
	names := make([]string, 0, len(m.latest))
	for name := range m.latest {
		names = append(names, name)
	}
	sort.Strings(names)
	all := make([]*compileReport, 0, len(names))
	for _, name := range names {
		all = append(all, m.latest[name])
	}
	return writeMetrics(m.path, all)
}
