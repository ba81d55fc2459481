// Package metrics instruments the outbound HTTP transport with Prometheus
// counters, a latency histogram and an in-flight gauge.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "unitx"

// Recorder holds the client-side request collectors.
type Recorder struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg.
// Registering twice with the same registerer reuses the existing
// collectors, so several clients can share one registry.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		return nil, errors.New("metrics: registerer cannot be nil")
	}

	r := &Recorder{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Outbound Unit API requests by method and status code.",
		}, []string{"method", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound Unit API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Outbound Unit API requests currently in flight.",
		}),
	}

	var err error
	if r.Requests, err = register(reg, r.Requests); err != nil {
		return nil, err
	}
	if r.Duration, err = register(reg, r.Duration); err != nil {
		return nil, err
	}
	if r.InFlight, err = register(reg, r.InFlight); err != nil {
		return nil, err
	}
	return r, nil
}

// InstrumentRoundTripper wraps next. A nil next means
// http.DefaultTransport, resolved per request so that transport swaps made
// after construction (httpmock, tests) are still honored.
func (r *Recorder) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = promhttp.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return http.DefaultTransport.RoundTrip(req)
		})
	}
	return promhttp.InstrumentRoundTripperInFlight(r.InFlight,
		promhttp.InstrumentRoundTripperCounter(r.Requests,
			promhttp.InstrumentRoundTripperDuration(r.Duration, next),
		),
	)
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
