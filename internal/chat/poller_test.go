package chat

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matheus3301/padesk/internal/metrics"
)

func TestPollerFetchesActiveThread(t *testing.T) {
	be, e, _ := newBackend(t)
	be.handle("GET /conversations", respond(`[{"id":"c1"}]`))
	be.handle("GET /conversations/c1/messages", respond(`[{"id":"m1","content":"hi"}]`))

	m := metrics.New(prometheus.NewRegistry())
	p := NewPoller(e, time.Hour, m, nil)
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return len(e.Conversations()) == 1 })

	p.SetActive("c1")
	waitFor(t, func() bool { return len(e.Messages("c1")) == 1 })

	waitFor(t, func() bool {
		return testutil.ToFloat64(m.ChatPolls.WithLabelValues("success")) >= 2
	})
}

func TestPollerCountsFailures(t *testing.T) {
	be, e, _ := newBackend(t)
	be.handle("GET /conversations", fail(http.StatusServiceUnavailable, ``))

	m := metrics.New(prometheus.NewRegistry())
	p := NewPoller(e, time.Hour, m, nil)
	p.Start(context.Background())

	waitFor(t, func() bool {
		return testutil.ToFloat64(m.ChatPolls.WithLabelValues("failure")) >= 1
	})
	p.Stop()
	p.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
