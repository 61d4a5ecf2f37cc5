package middleware

import (
	"context"
	"time"

	"github.com/broady/ejabberd/api"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calls and observes their latency per method and error code.
// Successful calls are labelled with code "ok".
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ejabberd",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Operations invoked, by method and result code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ejabberd",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Latency of invoked operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.calls, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Interceptor returns the interceptor recording into m.
func (m *Metrics) Interceptor() api.Interceptor {
	return func(ctx context.Context, info *api.CallInfo, args api.Args, next api.HandlerFunc) (any, error) {
		start := time.Now()
		res, err := next(ctx, args)
		m.duration.WithLabelValues(info.Method).Observe(time.Since(start).Seconds())
		code := "ok"
		if err != nil {
			code = string(api.CodeOf(err))
			if code == "" {
				code = string(api.CodeInternal)
			}
		}
		m.calls.WithLabelValues(info.Method, code).Inc()
		return res, err
	}
}
