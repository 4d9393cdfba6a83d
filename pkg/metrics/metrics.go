package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run collects the metrics of one prepare run on a private registry.
type Run struct {
	registry *prometheus.Registry

	Records     prometheus.Gauge
	Features    prometheus.Gauge
	Groups      prometheus.Gauge
	Split       *prometheus.GaugeVec
	StageTime   *prometheus.GaugeVec
	LastSuccess prometheus.Gauge
}

func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tourprep_records",
			Help: "Records in the cleaned table.",
		}),
		Features: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tourprep_features",
			Help: "Binary feature columns in the schema.",
		}),
		Groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tourprep_groups",
			Help: "Distinct location groups.",
		}),
		Split: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tourprep_split_records",
			Help: "Records per split subset.",
		}, []string{"subset"}),
		StageTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tourprep_stage_duration_seconds",
			Help: "Wall time spent in each pipeline stage.",
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tourprep_last_success_timestamp_seconds",
			Help: "Unix time of the last run that wrote its artifacts.",
		}),
	}
	r.registry.MustRegister(r.Records, r.Features, r.Groups, r.Split, r.StageTime, r.LastSuccess)
	return r
}

// Stage records the time elapsed since start for the named stage.
func (r *Run) Stage(stage string, start time.Time) {
	r.StageTime.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// Gatherer exposes the run registry.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile marks the run successful and writes all metrics in the text exposition
// format, as read by the node_exporter textfile collector.
func (r *Run) WriteTextfile(path string) error {
	r.LastSuccess.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, r.registry)
}
