package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
)

// Enqueuer is the producer side of the task queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PageInvalidator fans page-section invalidation out through the task queue.
// When enqueueing fails it bumps the section versions directly, so a queue
// outage degrades to the synchronous path instead of serving stale pages.
type PageInvalidator struct {
	client Enqueuer
	pages  *cache.PageCache
	logger *slog.Logger
}

// NewPageInvalidator constructs a PageInvalidator. A nil client skips the
// queue and always invalidates directly.
func NewPageInvalidator(client Enqueuer, pages *cache.PageCache, logger *slog.Logger) *PageInvalidator {
	return &PageInvalidator{client: client, pages: pages, logger: logger}
}

// Invalidate submits one page:revalidate task covering the sections.
func (p *PageInvalidator) Invalidate(ctx context.Context, sections ...string) {
	if p == nil || len(sections) == 0 {
		return
	}
	if p.client != nil {
		task, err := NewPageRevalidateTask(sections...)
		if err == nil {
			if _, err = p.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err == nil {
				return
			}
			if p.logger != nil {
				p.logger.Warn("page revalidate enqueue", slog.Any("error", err))
			}
		}
	}
	p.pages.Invalidate(ctx, sections...)
}
