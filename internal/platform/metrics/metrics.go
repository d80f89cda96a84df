package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	contractsv1 "vendorhub/contracts/gen/events/v1"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vendorhub"

// Role check results recorded by ObserveRoleCheck.
const (
	RoleCheckGranted = "granted"
	RoleCheckDenied  = "denied"
	RoleCheckError   = "error"
)

// Metrics owns the process collectors and the registry /metrics serves.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	dealsClosedTotal    prometheus.Counter
	roleChecksTotal     *prometheus.CounterVec
	eventsPublished     *prometheus.CounterVec
	eventsPublishFailed *prometheus.CounterVec
}

// New registers every collector on a fresh registry. Go runtime and process
// collectors are included so /metrics is useful without extra wiring.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight HTTP requests by method and route.",
		}, []string{"method", "path"}),
		dealsClosedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_closed_total",
			Help:      "Deals closed through the API.",
		}),
		roleChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_checks_total",
			Help:      "has_role lookups by role and result.",
		}, []string{"role", "result"}), // result: granted|denied|error
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Outbox events relayed to the bus.",
		}, []string{"topic"}),
		eventsPublishFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_publish_failures_total",
			Help:      "Outbox events the bus rejected.",
		}, []string{"topic"}),
	}

	all := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInflight,
		m.dealsClosedTotal,
		m.roleChecksTotal,
		m.eventsPublished,
		m.eventsPublishFailed,
	}
	for _, collector := range all {
		if err := registerCollector(m.registry, collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the gatherer for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WithRoute instruments one route. The route pattern is used as the path label
// so vendor ids never explode label cardinality.
func (m *Metrics) WithRoute(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	pathLabel := routePath(route)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		m.httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			m.httpInflight.WithLabelValues(method, pathLabel).Dec()
			m.httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

func (m *Metrics) DealClosed() {
	if m == nil {
		return
	}
	m.dealsClosedTotal.Inc()
}

func (m *Metrics) ObserveRoleCheck(role string, result string) {
	if m == nil {
		return
	}
	m.roleChecksTotal.WithLabelValues(role, result).Inc()
}

// EnvelopePublisher is the bus surface both outbox relays publish through.
type EnvelopePublisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}

// CountingPublisher counts relayed events per topic.
type CountingPublisher struct {
	Next    EnvelopePublisher
	Metrics *Metrics
}

func (p CountingPublisher) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	err := p.Next.Publish(ctx, topic, event)
	if p.Metrics == nil {
		return err
	}
	if err != nil {
		p.Metrics.eventsPublishFailed.WithLabelValues(topic).Inc()
		return err
	}
	p.Metrics.eventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// registerCollector ignores duplicates so tests can share collectors.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// routePath strips the method from a ServeMux pattern ("GET /a/{id}" -> "/a/{id}").
func routePath(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return strings.TrimSpace(path)
	}
	return pattern
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
