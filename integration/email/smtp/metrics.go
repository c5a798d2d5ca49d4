package smtp

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSent     = "sent"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// Metrics counts send attempts by result and measures their duration.
// A nil *Metrics records nothing.
type Metrics struct {
	mails    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the SMTP collectors with reg. Registering twice with
// the same registry reuses the collectors already there.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	mails := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smtp",
			Name:      "mails_total",
			Help:      "Total number of send attempts by result (sent, rejected, failed)",
		},
		[]string{"result"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smtp",
			Name:      "send_duration_seconds",
			Help:      "Duration of send attempts in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	var err error
	if mails, err = register(reg, mails); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{mails: mails, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.mails.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}
