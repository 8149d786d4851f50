// Package metrics exposes Prometheus counters for the dashboard's sync layer.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequests   *prometheus.CounterVec
	DegradedReads  *prometheus.CounterVec
	SessionRefresh *prometheus.CounterVec
	ChatPolls      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padesk_http_requests_total",
			Help: "Backend HTTP requests by backend and status class.",
		}, []string{"backend", "status_class"}),
		DegradedReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padesk_degraded_reads_total",
			Help: "List reads converted to empty results after an authorization denial.",
		}, []string{"resource"}),
		SessionRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padesk_session_refreshes_total",
			Help: "Bearer token refresh attempts by result.",
		}, []string{"result"}),
		ChatPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padesk_chat_polls_total",
			Help: "Messaging backend poll cycles by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.HTTPRequests, m.DegradedReads, m.SessionRefresh, m.ChatPolls)
	}
	return m
}

// ObserveHTTP counts one response; status 0 means the request never got a response.
func (m *Metrics) ObserveHTTP(backend string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(backend, StatusClass(status)).Inc()
}

// ObserveDegradedRead counts one list read that was degraded to an empty result.
func (m *Metrics) ObserveDegradedRead(resource string) {
	if m == nil {
		return
	}
	m.DegradedReads.WithLabelValues(resource).Inc()
}

// ObserveRefresh counts one refresh attempt.
func (m *Metrics) ObserveRefresh(ok bool) {
	if m == nil {
		return
	}
	m.SessionRefresh.WithLabelValues(result(ok)).Inc()
}

// ObservePoll counts one chat poll cycle.
func (m *Metrics) ObservePoll(ok bool) {
	if m == nil {
		return
	}
	m.ChatPolls.WithLabelValues(result(ok)).Inc()
}

// StatusClass maps an HTTP status to "2xx", "4xx", ... or "error" for no response.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
