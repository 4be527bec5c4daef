// Package metrics defines and registers all custom Prometheus metrics for the
// wellbeing API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "wellbeing"

// AI operation labels.
const (
	OperationSummary   = "summary"
	OperationAssistant = "assistant"
)

// AI outcome labels.
const (
	OutcomeSuccess         = "success"
	OutcomeNoData          = "no_data"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeExternalError   = "external_error"
	OutcomeStorageError    = "storage_error"
)

// ── AI metrics ────────────────────────────────────────────────────────────────

// AIRequestsTotal counts summary and assistant runs by outcome.
// Labels:
//   - operation: "summary" or "assistant"
//   - outcome: "success", "no_data", "invalid_response", "external_error", "storage_error"
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI summary and assistant runs, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// AIModelCallDuration measures the external language model call alone.
var AIModelCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "ai_model_call_duration_seconds",
		Help:      "Duration of external language model calls.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
	},
	[]string{"operation"},
)

// ── Summary queue metrics ─────────────────────────────────────────────────────

// SummaryJobsTotal counts scheduling decisions for background summaries.
// Label:
//   - result: "enqueued", "coalesced" (a job for the user was already pending) or "dropped" (queue full)
var SummaryJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "summary_jobs_total",
		Help:      "Total number of background summary scheduling decisions, by result.",
	},
	[]string{"result"},
)

// SummaryQueueDepth tracks the number of jobs waiting in each worker channel.
var SummaryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "summary_queue_depth",
		Help:      "Current number of summary jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Wellbeing metrics ─────────────────────────────────────────────────────────

// JournalsCreatedTotal counts journal entries by wellbeing score.
var JournalsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "journals_created_total",
		Help:      "Total number of journal entries created, by wellbeing score.",
	},
	[]string{"score"},
)

// TestsSubmittedTotal counts persisted test results.
var TestsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tests_submitted_total",
		Help:      "Total number of psychological test submissions scored and stored.",
	},
)
