package audit

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/arcadia-mall/arcadia-admin/jobs"

	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Recorder writes activity log entries as a best-effort side channel.
// Entries are enqueued for the background worker; if enqueueing fails the
// recorder falls back to a direct write. Every failure path is logged and
// swallowed, so recording never fails the parent operation.
type Recorder struct {
	client *asynq.Client
	writer *shared.AuditLogger
	logger *slog.Logger
}

// NewRecorder constructs a Recorder. Either client or writer may be nil;
// with both nil the recorder is a logged no-op.
func NewRecorder(client *asynq.Client, writer *shared.AuditLogger, logger *slog.Logger) *Recorder {
	return &Recorder{client: client, writer: writer, logger: logger}
}

// Record submits one audit entry, fire and forget.
func (r *Recorder) Record(ctx context.Context, entry shared.AuditLog) {
	if r == nil {
		return
	}
	if r.client != nil {
		task, err := jobs.NewAuditRecordTask(entry)
		if err == nil {
			if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault)); err == nil {
				return
			} else if r.logger != nil {
				r.logger.Warn("audit enqueue", slog.Any("error", err))
			}
		}
	}
	if r.writer == nil {
		if r.logger != nil {
			r.logger.Warn("audit entry dropped", slog.String("entity", entry.Entity), slog.String("action", entry.Action))
		}
		return
	}
	if err := r.writer.Record(ctx, entry); err != nil && r.logger != nil {
		r.logger.Warn("audit direct write", slog.Any("error", err))
	}
}
