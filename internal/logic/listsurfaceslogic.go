// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
)

type ListSurfacesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListSurfacesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListSurfacesLogic {
	return &ListSurfacesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListSurfacesLogic) ListSurfaces() (*types.ListSurfacesResp, error) {
	return &types.ListSurfacesResp{Surfaces: l.svcCtx.Analyzer.Surfaces()}, nil
}
