// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"aetherius-api/internal/model"
	"aetherius-api/internal/persistence"
	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
	agentpkg "aetherius-api/pkg/agent"
)

// ErrMissingInput rejects submissions carrying neither a message nor a profile.
var ErrMissingInput = errors.New("either message or profile is required")

type SubmitAnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSubmitAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SubmitAnalysisLogic {
	return &SubmitAnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SubmitAnalysisLogic) SubmitAnalysis(req *types.SubmitAnalysisReq) (*types.AnalysisResp, error) {
	message := strings.TrimSpace(req.Message)
	if req.Profile != nil {
		rendered, err := l.svcCtx.PromptRenderer.Render(profileFromRequest(req.Profile))
		if err != nil {
			return nil, err
		}
		message = rendered
	}
	if message == "" {
		return nil, ErrMissingInput
	}

	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		sessionID = agentpkg.NewSessionID()
	}

	result, err := l.svcCtx.Analyzer.AnalyzeSession(l.ctx, req.Surface, sessionID, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := &model.Analysis{
		Id:        uuid.NewString(),
		Surface:   strings.ToLower(strings.TrimSpace(req.Surface)),
		SessionId: persistence.NullString(sessionID),
		Prompt:    message,
		Payload:   string(result),
		CreatedAt: now,
	}
	if err := l.svcCtx.Persistence.SaveAnalysis(l.ctx, row); err != nil {
		// The structured result is already in hand; storage failures only
		// cost us history.
		l.Errorf("save analysis %s: %v", row.Id, err)
	}

	return &types.AnalysisResp{
		Id:        row.Id,
		Surface:   row.Surface,
		SessionId: sessionID,
		Result:    result,
		CreatedAt: now.Unix(),
	}, nil
}

func profileFromRequest(p *types.BusinessProfile) *agentpkg.Profile {
	return &agentpkg.Profile{
		BusinessType:        p.BusinessType,
		Employees:           p.Employees,
		PainPoints:          p.PainPoints,
		CustomPainPoint:     p.CustomPainPoint,
		TaskTime:            p.TaskTime,
		LaborCosts:          p.LaborCosts,
		ToolsCosts:          p.ToolsCosts,
		InfrastructureCosts: p.InfrastructureCosts,
		OtherCosts:          p.OtherCosts,
		AIBudget:            p.AIBudget,
		Timeline:            p.Timeline,
		TargetSavings:       p.TargetSavings,
		ExpectedROI:         p.ExpectedROI,
		Priorities:          p.Priorities,
		CustomPriority:      p.CustomPriority,
	}
}
