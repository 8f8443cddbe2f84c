package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TimelineFilters narrows the audit timeline.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	Actor    string
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// TimelineRow is one audit event in the timeline.
type TimelineRow struct {
	At       time.Time      `json:"at"`
	ActorID  int64          `json:"actorId"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entityId"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// PagingInfo carries next/prev hints for the timeline.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	HasNext  bool `json:"hasNext"`
	PrevPage int  `json:"prevPage,omitempty"`
	NextPage int  `json:"nextPage,omitempty"`
}

// Result wraps timeline rows with paging information.
type Result struct {
	Rows   []TimelineRow `json:"rows"`
	Paging PagingInfo    `json:"paging"`
}

// Service reads the audit timeline.
type Service struct {
	pool *pgxpool.Pool
}

// NewService builds the audit timeline service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Timeline fetches audit rows with filters and paging. One extra row is
// requested to detect whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE 1=1`
	args := []any{}
	n := 0
	add := func(clause string, value any) {
		n++
		query += " AND " + clause + "$" + strconv.Itoa(n)
		args = append(args, value)
	}
	if !filters.From.IsZero() {
		add("occurred_at >= ", filters.From)
	}
	if !filters.To.IsZero() {
		add("occurred_at <= ", filters.To)
	}
	if filters.Actor != "" {
		add("actor_id::text = ", filters.Actor)
	}
	if filters.Entity != "" {
		add("entity = ", filters.Entity)
	}
	if filters.Action != "" {
		add("action = ", filters.Action)
	}
	query += " ORDER BY occurred_at DESC"
	n++
	query += " LIMIT $" + strconv.Itoa(n)
	args = append(args, pageSize+1)
	n++
	query += " OFFSET $" + strconv.Itoa(n)
	args = append(args, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	var result []TimelineRow
	for rows.Next() {
		var row TimelineRow
		var meta []byte
		if err := rows.Scan(&row.ActorID, &row.Action, &row.Entity, &row.EntityID, &meta, &row.At); err != nil {
			return Result{}, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &row.Meta)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	hasNext := len(result) > pageSize
	if hasNext {
		result = result[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: result, Paging: paging}, nil
}
