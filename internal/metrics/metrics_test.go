package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{0, "error"},
		{200, "2xx"},
		{204, "2xx"},
		{401, "4xx"},
		{403, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := StatusClass(tt.status); got != tt.want {
			t.Errorf("StatusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("primary", 200)
	m.ObserveHTTP("primary", 201)
	m.ObserveDegradedRead("bookings")
	m.ObserveRefresh(false)
	m.ObservePoll(true)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("primary", "2xx")); got != 2 {
		t.Errorf("http 2xx = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DegradedReads.WithLabelValues("bookings")); got != 1 {
		t.Errorf("degraded bookings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionRefresh.WithLabelValues("failure")); got != 1 {
		t.Errorf("refresh failure = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ChatPolls.WithLabelValues("success")); got != 1 {
		t.Errorf("poll success = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("primary", 500)
	m.ObserveDegradedRead("users")
	m.ObserveRefresh(true)
	m.ObservePoll(false)
}
