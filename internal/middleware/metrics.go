package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

// Metrics stores process counters. Request counters are fed by
// MetricsMiddleware, analysis counters by RecordOutcome.
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64

	AnalysesTotal   uint64
	Urgent          uint64
	Standard        uint64
	NoMould         uint64
	AnalysisErrors  uint64
	PublishFailures uint64
	Rejected        uint64
	StartTime       time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// RecordOutcome counts one finished pipeline run.
func RecordOutcome(out *triage.Outcome, err error) {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
	switch {
	case errors.Is(err, triage.ErrQueuePublishFailed):
		atomic.AddUint64(&globalMetrics.PublishFailures, 1)
	case out != nil && out.Label == triage.LabelAnalysisError:
		atomic.AddUint64(&globalMetrics.AnalysisErrors, 1)
		return
	case err != nil:
		atomic.AddUint64(&globalMetrics.Rejected, 1)
		return
	}
	if out == nil {
		return
	}
	switch out.Label {
	case triage.LabelUrgent:
		atomic.AddUint64(&globalMetrics.Urgent, 1)
	case triage.LabelStandard:
		atomic.AddUint64(&globalMetrics.Standard, 1)
	case triage.LabelNoMould:
		atomic.AddUint64(&globalMetrics.NoMould, 1)
	}
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses": map[string]uint64{
			"total":            atomic.LoadUint64(&globalMetrics.AnalysesTotal),
			"urgent":           atomic.LoadUint64(&globalMetrics.Urgent),
			"standard":         atomic.LoadUint64(&globalMetrics.Standard),
			"no_mould":         atomic.LoadUint64(&globalMetrics.NoMould),
			"analysis_errors":  atomic.LoadUint64(&globalMetrics.AnalysisErrors),
			"publish_failures": atomic.LoadUint64(&globalMetrics.PublishFailures),
			"rejected":         atomic.LoadUint64(&globalMetrics.Rejected),
		},
		"uptime_seconds": time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		// redirects back to the form count as success
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
