package metrics

import (
	"net/http"
	"strconv"
	"time"

	"seguraassina/internal/domain"
	"seguraassina/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seguraassina"

// Recorder owns a private registry so several servers can coexist in one
// process, as they do in tests.
type Recorder struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	verifications *prometheus.CounterVec
	signatures    prometheus.Counter
	keys          *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	r.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of API requests",
	}, []string{"method", "route", "status"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request duration in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "route"})
	r.verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Completed signature verifications by reason",
	}, []string{"reason"})
	r.signatures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signatures_total",
		Help:      "Documents signed",
	})
	r.keys = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keys_generated_total",
		Help:      "Key pairs generated by modulus size",
	}, []string{"key_size"})

	r.registry.MustRegister(r.requests, r.duration, r.verifications, r.signatures, r.keys)
	return r
}

func (r *Recorder) KeysGenerated(size domain.KeySize) {
	r.keys.WithLabelValues(strconv.Itoa(int(size))).Inc()
}

func (r *Recorder) DocumentSigned() {
	r.signatures.Inc()
}

func (r *Recorder) VerificationCompleted(reason domain.ReasonCode) {
	r.verifications.WithLabelValues(string(reason)).Inc()
}

// Middleware records request counts and latency labelled by route template.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

var _ usecase.Metrics = (*Recorder)(nil)
