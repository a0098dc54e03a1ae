package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var (
	conversationFieldNames = builder.RawFieldNames(&Conversation{}, true)
	conversationRows       = strings.Join(conversationFieldNames, ",")
)

type (
	// ConversationsModel persists chat-style assessment sessions.
	ConversationsModel interface {
		Upsert(ctx context.Context, data *Conversation) error
		FindOne(ctx context.Context, sessionId string) (*Conversation, error)
	}

	defaultConversationsModel struct {
		conn  sqlx.SqlConn
		table string
	}

	// Conversation groups assessment turns under one remote session.
	Conversation struct {
		SessionId string    `db:"session_id"`
		Surface   string    `db:"surface"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)

// NewConversationsModel returns a model for the conversations table.
func NewConversationsModel(conn sqlx.SqlConn) ConversationsModel {
	return &defaultConversationsModel{conn: conn, table: `"conversations"`}
}

func (m *defaultConversationsModel) Upsert(ctx context.Context, data *Conversation) error {
	query := fmt.Sprintf(`insert into %s (session_id, surface, created_at, updated_at)
		values ($1, $2, $3, $4)
		on conflict (session_id) do update set updated_at = excluded.updated_at`, m.table)
	_, err := m.conn.ExecCtx(ctx, query, data.SessionId, data.Surface, data.CreatedAt, data.UpdatedAt)
	return err
}

func (m *defaultConversationsModel) FindOne(ctx context.Context, sessionId string) (*Conversation, error) {
	query := fmt.Sprintf("select %s from %s where session_id = $1 limit 1", conversationRows, m.table)
	var resp Conversation
	err := m.conn.QueryRowCtx(ctx, &resp, query, sessionId)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}
