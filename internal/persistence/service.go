package persistence

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "aetherius-api/internal/cache"
	"aetherius-api/internal/model"
)

// Roles recorded for conversation turns.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Service wires Postgres + Redis collaborators behind the analysis endpoints.
type Service struct {
	sqlConn            sqlx.SqlConn
	analysesModel      model.AnalysesModel
	conversationsModel model.ConversationsModel
	messagesModel      model.ConversationMessagesModel
	cache              gocache.Cache
	ttl                cachekeys.TTLSet
}

// Config enumerates dependencies needed to persist analysis results.
type Config struct {
	SQLConn            sqlx.SqlConn
	AnalysesModel      model.AnalysesModel
	ConversationsModel model.ConversationsModel
	MessagesModel      model.ConversationMessagesModel
	Cache              gocache.Cache
	TTL                cachekeys.TTLSet
}

// NewService returns a concrete persistence service when mandatory dependencies are present.
func NewService(cfg Config) *Service {
	if cfg.SQLConn == nil {
		return nil
	}
	return &Service{
		sqlConn:            cfg.SQLConn,
		analysesModel:      cfg.AnalysesModel,
		conversationsModel: cfg.ConversationsModel,
		messagesModel:      cfg.MessagesModel,
		cache:              cfg.Cache,
		ttl:                cfg.TTL,
	}
}

// SaveAnalysis stores one orchestrator result and primes the cache.
func (s *Service) SaveAnalysis(ctx context.Context, row *model.Analysis) error {
	if s == nil || s.analysesModel == nil || row == nil {
		return nil
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := s.analysesModel.Insert(ctx, row); err != nil {
		return err
	}
	s.setCached(ctx, cachekeys.AnalysisKey(row.Id), cachekeys.AnalysisTTL(s.ttl), row)
	// Stored rows change the recent listing for this surface.
	s.dropCached(ctx, cachekeys.AnalysisRecentKey(row.Surface))
	return nil
}

// GetAnalysis loads one stored result, preferring the cache.
func (s *Service) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	if s == nil || s.analysesModel == nil {
		return nil, model.ErrNotFound
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.ErrNotFound
	}
	key := cachekeys.AnalysisKey(id)
	var cached model.Analysis
	if ok := s.getCached(ctx, key, &cached); ok {
		return &cached, nil
	}
	row, err := s.analysesModel.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, key, cachekeys.AnalysisTTL(s.ttl), row)
	return row, nil
}

// recentListMax is the number of rows kept under the recent-list cache key.
// Requests are served as slices of that list so the key stays limit-agnostic.
const recentListMax = 50

// ListRecent returns the latest stored results for one surface.
func (s *Service) ListRecent(ctx context.Context, surface string, limit int) ([]*model.Analysis, error) {
	if s == nil || s.analysesModel == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > recentListMax {
		return s.analysesModel.ListRecentBySurface(ctx, surface, limit)
	}
	key := cachekeys.AnalysisRecentKey(surface)
	var cached []*model.Analysis
	if ok := s.getCached(ctx, key, &cached); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}
	rows, err := s.analysesModel.ListRecentBySurface(ctx, surface, recentListMax)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, key, cachekeys.AnalysisRecentTTL(s.ttl), rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// RecordTurn appends one conversation turn, creating the session row on first use.
func (s *Service) RecordTurn(ctx context.Context, sessionID, surface, role, content string) error {
	if s == nil || s.conversationsModel == nil || s.messagesModel == nil {
		return nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return errors.New("session id required")
	}
	now := time.Now().UTC()
	conv := &model.Conversation{
		SessionId: sessionID,
		Surface:   surface,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversationsModel.Upsert(ctx, conv); err != nil {
		return err
	}
	msg := &model.ConversationMessage{
		SessionId: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
	if err := s.messagesModel.Insert(ctx, msg); err != nil {
		return err
	}
	s.dropCached(ctx, cachekeys.ConversationMessagesKey(sessionID))
	return nil
}

// Conversation returns a session row with its turns in chronological order.
func (s *Service) Conversation(ctx context.Context, sessionID string) (*model.Conversation, []*model.ConversationMessage, error) {
	if s == nil || s.conversationsModel == nil || s.messagesModel == nil {
		return nil, nil, model.ErrNotFound
	}
	conv, err := s.conversationsModel.FindOne(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	key := cachekeys.ConversationMessagesKey(sessionID)
	var cached []*model.ConversationMessage
	if ok := s.getCached(ctx, key, &cached); ok {
		return conv, cached, nil
	}
	msgs, err := s.messagesModel.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	s.setCached(ctx, key, cachekeys.ConversationTTL(s.ttl), msgs)
	return conv, msgs, nil
}

// NullString converts an optional value into its sql form.
func NullString(v string) sql.NullString {
	v = strings.TrimSpace(v)
	return sql.NullString{String: v, Valid: v != ""}
}

// Cached rows travel as msgpack; base64 keeps the bytes safe inside the
// cache layer's string transport.
func encodeCached(v interface{}) (string, error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeCached(s string, v interface{}) error {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(raw, v)
}

func (s *Service) getCached(ctx context.Context, key string, v interface{}) bool {
	if s.cache == nil {
		return false
	}
	var blob string
	if err := s.cache.GetCtx(ctx, key, &blob); err != nil {
		if !s.cache.IsNotFound(err) {
			logx.WithContext(ctx).Errorf("get cache %s: %v", key, err)
		}
		return false
	}
	if err := decodeCached(blob, v); err != nil {
		logx.WithContext(ctx).Errorf("decode cache %s: %v", key, err)
		s.dropCached(ctx, key)
		return false
	}
	return true
}

func (s *Service) setCached(ctx context.Context, key string, ttl time.Duration, v interface{}) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	blob, err := encodeCached(v)
	if err != nil {
		logx.WithContext(ctx).Errorf("encode cache %s: %v", key, err)
		return
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, blob, ttl); err != nil {
		logx.WithContext(ctx).Errorf("set cache %s: %v", key, err)
	}
}

func (s *Service) dropCached(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelCtx(ctx, key); err != nil {
		logx.WithContext(ctx).Errorf("del cache %s: %v", key, err)
	}
}
