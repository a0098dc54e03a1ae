// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"aetherius-api/internal/persistence"
	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
	agentpkg "aetherius-api/pkg/agent"
)

type AssessmentLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssessmentLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssessmentLogic {
	return &AssessmentLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Assessment runs one conversational turn against the configured agent.
// Unlike the analysis endpoints the reply stays free-form text, so only
// Markdown decoration is removed.
func (l *AssessmentLogic) Assessment(req *types.AssessmentReq) (*types.AssessmentResp, error) {
	surface := strings.ToLower(strings.TrimSpace(req.Surface))
	surfaceCfg, ok := l.svcCtx.AgentConfig.Surface(surface)
	if !ok {
		return nil, fmt.Errorf("%w: %s", agentpkg.ErrUnknownSurface, surface)
	}

	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		sessionID = agentpkg.NewSessionID()
	}

	envelope, err := l.svcCtx.Client.Converse(l.ctx, &agentpkg.ConverseRequest{
		AgentID:   surfaceCfg.AgentID,
		SessionID: sessionID,
		Message:   req.Message,
	})
	if err != nil {
		return nil, err
	}
	reply := agentpkg.StripMarkdown(envelope.Response)

	if err := l.svcCtx.Persistence.RecordTurn(l.ctx, sessionID, surface, persistence.RoleUser, req.Message); err != nil {
		l.Errorf("record user turn %s: %v", sessionID, err)
	}
	if err := l.svcCtx.Persistence.RecordTurn(l.ctx, sessionID, surface, persistence.RoleAgent, reply); err != nil {
		l.Errorf("record agent turn %s: %v", sessionID, err)
	}

	return &types.AssessmentResp{SessionId: sessionID, Reply: reply}, nil
}
