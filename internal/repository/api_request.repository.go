package repository

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"growyourdough/internal/db/models/postgres/public/model"
	"growyourdough/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

// request and response bodies are cut to this many bytes before they are
// stored. holdings.csv and advisor replies can be large.
const maxLoggedBodyBytes = 4096

// ApiRequestRepository keeps an audit row per http request. Rows are
// inserted when the request arrives and completed once it is answered.
type ApiRequestRepository interface {
	Start(ctx context.Context, db qrm.Queryable, ar model.APIRequest) (*model.APIRequest, error)
	Finish(ctx context.Context, db qrm.Executable, ar model.APIRequest) error
	DeleteBefore(ctx context.Context, db qrm.Executable, cutoff time.Time) (int64, error)
}

type ApiRequestRepositoryHandler struct{}

func truncateLoggedBody(body *string) *string {
	if body == nil || len(*body) <= maxLoggedBodyBytes {
		return body
	}
	cut := (*body)[:maxLoggedBodyBytes]
	// never split a multi byte rune
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	out := cut + "...(truncated)"
	return &out
}

func (h ApiRequestRepositoryHandler) Start(ctx context.Context, db qrm.Queryable, ar model.APIRequest) (*model.APIRequest, error) {
	ar.RequestID = uuid.New()
	ar.RequestBody = truncateLoggedBody(ar.RequestBody)
	ar.DurationMs = nil
	ar.StatusCode = nil
	ar.ResponseBody = nil

	query := table.APIRequest.
		INSERT(table.APIRequest.AllColumns).
		MODEL(ar).
		RETURNING(table.APIRequest.AllColumns)

	out := &model.APIRequest{}
	err := query.QueryContext(ctx, db, out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert api request %s %s: %w", ar.Method, ar.Route, err)
	}

	return out, nil
}

// Finish records the outcome. UserID is only known once auth ran, so it
// is written here rather than on insert.
func (h ApiRequestRepositoryHandler) Finish(ctx context.Context, db qrm.Executable, ar model.APIRequest) error {
	ar.ResponseBody = truncateLoggedBody(ar.ResponseBody)

	query := table.APIRequest.
		UPDATE(
			table.APIRequest.UserID,
			table.APIRequest.DurationMs,
			table.APIRequest.StatusCode,
			table.APIRequest.ResponseBody,
		).
		MODEL(ar).
		WHERE(table.APIRequest.RequestID.EQ(postgres.UUID(ar.RequestID)))

	_, err := query.ExecContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to complete api request %s: %w", ar.RequestID.String(), err)
	}

	return nil
}

// DeleteBefore prunes rows that started before cutoff and returns how many
// were removed
func (h ApiRequestRepositoryHandler) DeleteBefore(ctx context.Context, db qrm.Executable, cutoff time.Time) (int64, error) {
	query := table.APIRequest.
		DELETE().
		WHERE(table.APIRequest.StartTs.LT(postgres.TimestampzT(cutoff)))

	res, err := query.ExecContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to prune api requests before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned api requests: %w", err)
	}
	return n, nil
}
