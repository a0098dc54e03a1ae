package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"aetherius-api/internal/logic"
	"aetherius-api/internal/model"
	agentpkg "aetherius-api/pkg/agent"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps pipeline errors onto HTTP statuses: caller mistakes are
// 4xx, upstream agent trouble is 502, the rest is 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var remoteErr *agentpkg.RemoteError
	var exhausted *agentpkg.RetryExhaustedError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, agentpkg.ErrUnknownSurface),
		errors.Is(err, agentpkg.ErrEmptyMessage),
		errors.Is(err, logic.ErrMissingInput):
		status = http.StatusBadRequest
	case errors.As(err, &exhausted), errors.As(err, &remoteErr):
		status = http.StatusBadGateway
	default:
		var connErr *agentpkg.ConnectivityError
		var envErr *agentpkg.EnvelopeError
		var parseErr *agentpkg.ParseError
		var schemaErr *agentpkg.SchemaError
		if errors.As(err, &connErr) || errors.As(err, &envErr) ||
			errors.As(err, &parseErr) || errors.As(err, &schemaErr) {
			status = http.StatusBadGateway
		}
	}

	httpx.WriteJsonCtx(ctx, w, status, errorBody{Error: err.Error()})
}
