package output

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/risk"
)

// MetricsSink writes the report in the Prometheus text exposition format, for
// node_exporter's textfile collector.
type MetricsSink struct {
	path string

	registry     *prometheus.Registry
	callSites    *prometheus.GaugeVec
	projects     *prometheus.GaugeVec
	filesScanned prometheus.Gauge
	complete     prometheus.Gauge
}

func NewMetricsSink(path string) (*MetricsSink, error) {
	if path == "" {
		return nil, fmt.Errorf("metrics path required")
	}
	s := &MetricsSink{
		path:     path,
		registry: prometheus.NewRegistry(),
		callSites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hfscanner",
			Name:      "call_sites",
			Help:      "Download call sites found in the last scan, by tier.",
		}, []string{"tier"}),
		projects: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hfscanner",
			Name:      "projects",
			Help:      "Projects by final tier in the last scan.",
		}, []string{"tier"}),
		filesScanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hfscanner",
			Name:      "files_scanned",
			Help:      "Candidate files scanned in the last scan.",
		}),
		complete: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hfscanner",
			Name:      "scan_complete",
			Help:      "1 if the last scan visited every candidate file.",
		}),
	}
	s.registry.MustRegister(s.callSites, s.projects, s.filesScanned, s.complete)
	return s, nil
}

func (s *MetricsSink) Path() string { return s.path }

func (s *MetricsSink) Write(v any) error {
	r, ok := v.(*aggregate.Report)
	if !ok || r == nil {
		return nil
	}
	for _, t := range risk.Tiers {
		s.callSites.WithLabelValues(t.String()).Set(float64(r.Totals.Get(t)))
		s.projects.WithLabelValues(t.String()).Set(float64(r.ProjectCounts.Get(t)))
	}
	s.filesScanned.Set(float64(r.FilesScanned))
	if r.Complete {
		s.complete.Set(1)
	} else {
		s.complete.Set(0)
	}
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *MetricsSink) Close() error {
	return nil
}
