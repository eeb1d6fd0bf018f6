package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alnah/go-marksnap"
)

const namespace = "marksnap"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Recorder implements marksnap.Observer using Prometheus metrics.
type Recorder struct {
	once            sync.Once
	registry        *prom.Registry
	segmentDuration prom.Histogram
	segmentResults  *prom.CounterVec
	segmentBytes    prom.Counter
	runDuration     prom.Histogram
	runResults      *prom.CounterVec
	lastRunFiles    prom.Gauge
	busy            prom.Gauge
}

var _ marksnap.Observer = (*Recorder)(nil)

// NewRecorder constructs and registers the export metrics on reg.
// A nil reg gets a fresh private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{registry: reg}
	r.once.Do(func() {
		r.segmentDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_export_duration_seconds",
			Help:      "Time to rasterize and save one segment",
			Buckets:   prom.DefBuckets,
		})
		r.segmentResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "segment_exports_total",
			Help:      "Segment exports by result",
		}, []string{"result"})
		r.segmentBytes = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "exported_bytes_total",
			Help:      "Total PNG bytes written",
		})
		r.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "export_run_duration_seconds",
			Help:      "Duration of whole export runs",
			Buckets:   prom.ExponentialBuckets(0.25, 2, 10),
		})
		r.runResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "export_runs_total",
			Help:      "Export runs by result",
		}, []string{"result"})
		r.lastRunFiles = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_export_files",
			Help:      "Files saved by the most recent export run",
		})
		r.busy = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "export_in_progress",
			Help:      "1 while an export is running",
		})
		reg.MustRegister(r.segmentDuration, r.segmentResults, r.segmentBytes, r.runDuration, r.runResults, r.lastRunFiles, r.busy)
	})
	return r
}

// SegmentExported records one segment attempt.
func (r *Recorder) SegmentExported(index int, elapsed time.Duration, size int, err error) {
	if r == nil || r.segmentDuration == nil {
		return
	}
	r.busy.Set(1)
	r.segmentDuration.Observe(elapsed.Seconds())
	r.segmentResults.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		r.segmentBytes.Add(float64(size))
	}
}

// RunFinished records the outcome of an export run.
func (r *Recorder) RunFinished(runID string, elapsed time.Duration, files int, err error) {
	if r == nil || r.runDuration == nil {
		return
	}
	r.busy.Set(0)
	r.runDuration.Observe(elapsed.Seconds())
	r.runResults.WithLabelValues(resultLabel(err)).Inc()
	r.lastRunFiles.Set(float64(files))
}

// Registry returns the registry the metrics live in.
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func resultLabel(err error) string {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
