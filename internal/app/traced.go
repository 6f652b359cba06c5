package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

// tracedDispatcher logs each query at debug level, and failures at warn.
type tracedDispatcher struct {
	next   core.Processor[core.WorkItem, core.QueryResult]
	logger *zap.Logger
}

func newTracedDispatcher(next core.Processor[core.WorkItem, core.QueryResult], logger *zap.Logger) *tracedDispatcher {
	return &tracedDispatcher{next: next, logger: logger}
}

func (t *tracedDispatcher) Process(ctx context.Context, item core.WorkItem) (core.QueryResult, error) {
	t.logger.Debug("query request",
		zap.String("entity", item.Entity),
		zap.String("attribute", item.Attribute),
	)

	start := time.Now()
	out, err := t.next.Process(ctx, item)
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case err != nil:
		t.logger.Warn("query failed",
			zap.String("entity", item.Entity),
			zap.String("attribute", item.Attribute),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	case out.Failed():
		t.logger.Warn("query failed",
			zap.String("entity", item.Entity),
			zap.String("attribute", item.Attribute),
			zap.Duration("duration", elapsed),
			zap.String("error", out.Error),
		)
	default:
		t.logger.Debug("query response",
			zap.String("entity", item.Entity),
			zap.String("attribute", item.Attribute),
			zap.Duration("duration", elapsed),
			zap.Stringer("type", out.Type),
			zap.Int("count", out.Count),
			zap.String("sample", out.Sample),
		)
	}
	return out, err
}
