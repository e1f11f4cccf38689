package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "bukubesar_"

	resultSuccess = "success"
)

var (
	registerOnce sync.Once

	postingTotal     *prometheus.CounterVec
	postingLatency   *prometheus.HistogramVec
	reversalTotal    *prometheus.CounterVec
	numberingRetries prometheus.Counter
	periodTotal      *prometheus.CounterVec
)

// Init registers the ledger metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		postingTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "journal_post_total",
				Help: "Total journal post attempts by result",
			},
			[]string{"result"},
		)
		postingLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "journal_post_latency_seconds",
				Help:    "Journal post latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reversalTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "journal_reversal_total",
				Help: "Total journal reversals by result",
			},
			[]string{"result"},
		)
		numberingRetries = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "journal_numbering_retries_total",
				Help: "Total posting retries caused by numbering conflicts",
			},
		)
		periodTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "period_transitions_total",
				Help: "Total period transitions by action",
			},
			[]string{"action"},
		)

		prometheus.MustRegister(
			postingTotal,
			postingLatency,
			reversalTotal,
			numberingRetries,
			periodTotal,
		)
	})
}

// ResultLabel maps a posting outcome to a low-cardinality label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, apperrors.ErrEmptyJournal):
		return "empty"
	case errors.Is(err, apperrors.ErrMalformedLine):
		return "malformed_line"
	case errors.Is(err, apperrors.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, apperrors.ErrUnbalancedJournal):
		return "unbalanced"
	case errors.Is(err, apperrors.ErrPeriodLocked):
		return "period_locked"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrNumberingConflict):
		return "numbering_conflict"
	default:
		return "error"
	}
}

// ObservePost records post duration and result.
func ObservePost(err error, duration time.Duration) {
	result := ResultLabel(err)
	if postingTotal != nil {
		postingTotal.WithLabelValues(result).Inc()
	}
	if postingLatency != nil {
		postingLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReversal records a reversal result.
func ObserveReversal(err error) {
	if reversalTotal != nil {
		reversalTotal.WithLabelValues(ResultLabel(err)).Inc()
	}
}

// IncNumberingRetry counts a retried posting attempt.
func IncNumberingRetry() {
	if numberingRetries != nil {
		numberingRetries.Inc()
	}
}

// IncPeriodTransition counts a committed period transition.
func IncPeriodTransition(action string) {
	if action == "" {
		action = "unknown"
	}
	if periodTotal != nil {
		periodTotal.WithLabelValues(action).Inc()
	}
}
