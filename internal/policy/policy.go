// Package policy turns authorization denials on list reads into empty results,
// so panels render an empty state for roles without visibility.
package policy

import (
	"context"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/metrics"
	"go.uber.org/zap"
)

// Policy degrades authorization-denied list reads.
type Policy struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a policy.
func New(logger *zap.Logger, m *metrics.Metrics) *Policy {
	return &Policy{
		logger:  logging.OrNop(logger),
		metrics: m,
	}
}

// ReadList runs read. A KindAuthorizationDenied failure resolves to an empty
// collection with no meta and a nil error; every other error passes through.
// Writes must not go through ReadList.
func ReadList[E collection.Entity](ctx context.Context, p *Policy, resource string, read func(context.Context) (collection.Collection[E], error)) (collection.Collection[E], error) {
	c, err := read(ctx)
	if err == nil {
		return c, nil
	}
	if apiclient.KindOf(err) != apiclient.KindAuthorizationDenied {
		return c, err
	}
	p.degraded(resource, err)
	return collection.Empty[E](), nil
}

func (p *Policy) degraded(resource string, err error) {
	if p == nil {
		return
	}
	p.logger.Warn("list read denied, showing empty result",
		zap.String("resource", resource),
		zap.Error(err),
	)
	p.metrics.ObserveDegradedRead(resource)
}
