package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuditRecord persists one audit log row.
	TaskTypeAuditRecord = "audit:record"
	// TaskTypePageRevalidate bumps cached page sections after a mutation.
	TaskTypePageRevalidate = "page:revalidate"
)

// NewAuditRecordTask constructs an audit write task.
func NewAuditRecordTask(entry shared.AuditLog) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditRecord, data), nil
}

// RevalidatePayload names the cached page sections to invalidate.
type RevalidatePayload struct {
	Sections []string `json:"sections"`
}

// NewPageRevalidateTask constructs a page invalidation task.
func NewPageRevalidateTask(sections ...string) (*asynq.Task, error) {
	data, err := json.Marshal(RevalidatePayload{Sections: sections})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePageRevalidate, data), nil
}

// AuditRecordHandler processes TaskTypeAuditRecord tasks.
func AuditRecordHandler(writer *shared.AuditLogger, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var entry shared.AuditLog
		if err := json.Unmarshal(t.Payload(), &entry); err != nil {
			return asynq.SkipRetry
		}
		if err := writer.Record(ctx, entry); err != nil {
			logger.Error("audit record task", slog.Any("error", err))
			return err
		}
		return nil
	}
}

// PageRevalidateHandler processes TaskTypePageRevalidate tasks.
func PageRevalidateHandler(pages *cache.PageCache) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RevalidatePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		pages.Invalidate(ctx, payload.Sections...)
		return nil
	}
}
