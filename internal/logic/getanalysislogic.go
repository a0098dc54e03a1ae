// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"encoding/json"

	"github.com/zeromicro/go-zero/core/logx"

	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
)

type GetAnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetAnalysisLogic {
	return &GetAnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetAnalysisLogic) GetAnalysis(req *types.GetAnalysisReq) (*types.AnalysisResp, error) {
	row, err := l.svcCtx.Persistence.GetAnalysis(l.ctx, req.Id)
	if err != nil {
		return nil, err
	}
	resp := &types.AnalysisResp{
		Id:        row.Id,
		Surface:   row.Surface,
		Result:    json.RawMessage(row.Payload),
		CreatedAt: row.CreatedAt.Unix(),
	}
	if row.SessionId.Valid {
		resp.SessionId = row.SessionId.String
	}
	return resp, nil
}
