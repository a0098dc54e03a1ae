package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var (
	analysisFieldNames = builder.RawFieldNames(&Analysis{}, true)
	analysisRows       = strings.Join(analysisFieldNames, ",")
)

type (
	// AnalysesModel persists structured analysis results.
	AnalysesModel interface {
		Insert(ctx context.Context, data *Analysis) error
		FindOne(ctx context.Context, id string) (*Analysis, error)
		ListRecentBySurface(ctx context.Context, surface string, limit int) ([]*Analysis, error)
	}

	defaultAnalysesModel struct {
		conn  sqlx.SqlConn
		table string
	}

	// Analysis is one stored orchestrator result.
	Analysis struct {
		Id        string         `db:"id"`
		Surface   string         `db:"surface"`
		SessionId sql.NullString `db:"session_id"`
		Prompt    string         `db:"prompt"`
		Payload   string         `db:"payload"` // structured result as JSON text
		CreatedAt time.Time      `db:"created_at"`
	}
)

// NewAnalysesModel returns a model for the analyses table.
func NewAnalysesModel(conn sqlx.SqlConn) AnalysesModel {
	return &defaultAnalysesModel{conn: conn, table: `"analyses"`}
}

func (m *defaultAnalysesModel) Insert(ctx context.Context, data *Analysis) error {
	query := fmt.Sprintf("insert into %s (id, surface, session_id, prompt, payload, created_at) values ($1, $2, $3, $4, $5, $6)", m.table)
	_, err := m.conn.ExecCtx(ctx, query, data.Id, data.Surface, data.SessionId, data.Prompt, data.Payload, data.CreatedAt)
	return err
}

func (m *defaultAnalysesModel) FindOne(ctx context.Context, id string) (*Analysis, error) {
	query := fmt.Sprintf("select %s from %s where id = $1 limit 1", analysisRows, m.table)
	var resp Analysis
	err := m.conn.QueryRowCtx(ctx, &resp, query, id)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultAnalysesModel) ListRecentBySurface(ctx context.Context, surface string, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf("select %s from %s where surface = $1 order by created_at desc limit $2", analysisRows, m.table)
	var resp []*Analysis
	err := m.conn.QueryRowsCtx(ctx, &resp, query, surface, limit)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
