package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *captureEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newInvalidatorCache(t *testing.T) *cache.PageCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewPageCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPageInvalidatorEnqueuesRevalidateTask(t *testing.T) {
	queue := &captureEnqueuer{}
	pages := newInvalidatorCache(t)
	inv := NewPageInvalidator(queue, pages, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	before, err := pages.Version(ctx, "home")
	require.NoError(t, err)

	inv.Invalidate(ctx, "home", "news")

	require.Len(t, queue.tasks, 1)
	require.Equal(t, TaskTypePageRevalidate, queue.tasks[0].Type())
	var payload RevalidatePayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	require.Equal(t, []string{"home", "news"}, payload.Sections)

	// The queued path leaves the bump to the worker.
	after, err := pages.Version(ctx, "home")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPageInvalidatorFallsBackOnEnqueueFailure(t *testing.T) {
	queue := &captureEnqueuer{err: errors.New("broker down")}
	pages := newInvalidatorCache(t)
	inv := NewPageInvalidator(queue, pages, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	before, err := pages.Version(ctx, "home")
	require.NoError(t, err)

	inv.Invalidate(ctx, "home")

	after, err := pages.Version(ctx, "home")
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}

func TestPageInvalidatorNilClientInvalidatesDirectly(t *testing.T) {
	pages := newInvalidatorCache(t)
	inv := NewPageInvalidator(nil, pages, nil)
	ctx := context.Background()

	before, err := pages.Version(ctx, "home")
	require.NoError(t, err)

	inv.Invalidate(ctx, "home")

	after, err := pages.Version(ctx, "home")
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}

func TestPageRevalidateTaskRoundTrip(t *testing.T) {
	pages := newInvalidatorCache(t)
	ctx := context.Background()

	before, err := pages.Version(ctx, "home")
	require.NoError(t, err)

	task, err := NewPageRevalidateTask("home")
	require.NoError(t, err)
	require.NoError(t, PageRevalidateHandler(pages)(ctx, task))

	after, err := pages.Version(ctx, "home")
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}
