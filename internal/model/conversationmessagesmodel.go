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
	conversationMessageFieldNames = builder.RawFieldNames(&ConversationMessage{}, true)
	conversationMessageRows       = strings.Join(conversationMessageFieldNames, ",")
)

type (
	// ConversationMessagesModel persists individual assessment turns.
	ConversationMessagesModel interface {
		Insert(ctx context.Context, data *ConversationMessage) error
		ListBySession(ctx context.Context, sessionId string) ([]*ConversationMessage, error)
	}

	defaultConversationMessagesModel struct {
		conn  sqlx.SqlConn
		table string
	}

	// ConversationMessage is one user or agent turn in a conversation.
	ConversationMessage struct {
		Id        int64     `db:"id"`
		SessionId string    `db:"session_id"`
		Role      string    `db:"role"` // user | agent
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`
	}
)

// NewConversationMessagesModel returns a model for the conversation_messages table.
func NewConversationMessagesModel(conn sqlx.SqlConn) ConversationMessagesModel {
	return &defaultConversationMessagesModel{conn: conn, table: `"conversation_messages"`}
}

func (m *defaultConversationMessagesModel) Insert(ctx context.Context, data *ConversationMessage) error {
	query := fmt.Sprintf("insert into %s (session_id, role, content, created_at) values ($1, $2, $3, $4)", m.table)
	_, err := m.conn.ExecCtx(ctx, query, data.SessionId, data.Role, data.Content, data.CreatedAt)
	return err
}

func (m *defaultConversationMessagesModel) ListBySession(ctx context.Context, sessionId string) ([]*ConversationMessage, error) {
	query := fmt.Sprintf("select %s from %s where session_id = $1 order by created_at asc, id asc", conversationMessageRows, m.table)
	var resp []*ConversationMessage
	err := m.conn.QueryRowsCtx(ctx, &resp, query, sessionId)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
