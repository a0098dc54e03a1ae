// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"aetherius-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/analyses",
				Handler: SubmitAnalysisHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/analyses/:id",
				Handler: GetAnalysisHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/analyses",
				Handler: ListAnalysesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/surfaces",
				Handler: ListSurfacesHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/assessments",
				Handler: AssessmentHandler(serverCtx),
			},
		},
	)
}
