package jobs

import (
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// NewServer builds the asynq worker server with all task handlers registered.
func NewServer(redisAddr string, writer *shared.AuditLogger, pages *cache.PageCache, logger *slog.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{QueueDefault: 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeAuditRecord, AuditRecordHandler(writer, logger))
	mux.HandleFunc(TaskTypePageRevalidate, PageRevalidateHandler(pages))
	return srv, mux
}
