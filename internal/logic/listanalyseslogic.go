// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
	agentpkg "aetherius-api/pkg/agent"
)

type ListAnalysesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListAnalysesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListAnalysesLogic {
	return &ListAnalysesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListAnalysesLogic) ListAnalyses(req *types.ListAnalysesReq) (*types.ListAnalysesResp, error) {
	surface := strings.ToLower(strings.TrimSpace(req.Surface))
	if _, ok := l.svcCtx.AgentConfig.Surface(surface); !ok {
		return nil, fmt.Errorf("%w: %s", agentpkg.ErrUnknownSurface, surface)
	}
	rows, err := l.svcCtx.Persistence.ListRecent(l.ctx, surface, req.Limit)
	if err != nil {
		return nil, err
	}
	resp := &types.ListAnalysesResp{Analyses: make([]types.AnalysisResp, 0, len(rows))}
	for _, row := range rows {
		item := types.AnalysisResp{
			Id:        row.Id,
			Surface:   row.Surface,
			Result:    json.RawMessage(row.Payload),
			CreatedAt: row.CreatedAt.Unix(),
		}
		if row.SessionId.Valid {
			item.SessionId = row.SessionId.String
		}
		resp.Analyses = append(resp.Analyses, item)
	}
	return resp, nil
}
