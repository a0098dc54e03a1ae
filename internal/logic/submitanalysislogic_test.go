package logic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aetherius-api/internal/svc"
	"aetherius-api/internal/types"
	agentpkg "aetherius-api/pkg/agent"
)

// newAgentStub answers the inference wire protocol with a canned response
// per agent id and records the last received message.
func newAgentStub(t *testing.T, responses map[string]string) (*httptest.Server, *string) {
	t.Helper()
	var lastMessage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			AgentID string `json:"agent_id"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		lastMessage = payload.Message
		body, ok := responses[payload.AgentID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"response": body})
	}))
	t.Cleanup(server.Close)
	return server, &lastMessage
}

func newTestServiceContext(t *testing.T, endpoint string) *svc.ServiceContext {
	t.Helper()
	cfg := &agentpkg.Config{
		Endpoint:   endpoint,
		APIKey:     "test-key",
		UserID:     "tester@example.com",
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		Surfaces: map[string]agentpkg.SurfaceConfig{
			"cost":    {AgentID: "agent-cost"},
			"roadmap": {AgentID: "agent-roadmap"},
		},
	}
	client, err := agentpkg.NewClient(cfg)
	require.NoError(t, err)
	analyzer, err := agentpkg.NewAnalyzer(cfg, client)
	require.NoError(t, err)
	renderer, err := agentpkg.NewPromptRenderer("")
	require.NoError(t, err)
	return &svc.ServiceContext{
		AgentConfig:    cfg,
		Client:         client,
		Analyzer:       analyzer,
		PromptRenderer: renderer,
	}
}

func TestSubmitAnalysisWithMessage(t *testing.T) {
	stub, _ := newAgentStub(t, map[string]string{
		"agent-cost": "```json\n{\"currency\":\"USD\",\"title\":\"Cost Plan\"}\n```",
	})
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewSubmitAnalysisLogic(context.Background(), svcCtx)
	resp, err := l.SubmitAnalysis(&types.SubmitAnalysisReq{
		Surface: "cost",
		Message: "analyse my costs",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Id)
	require.Equal(t, "cost", resp.Surface)
	require.NotEmpty(t, resp.SessionId)
	require.JSONEq(t, `{"currency":"USD","title":"Cost Plan"}`, string(resp.Result))
}

func TestSubmitAnalysisRendersProfile(t *testing.T) {
	stub, lastMessage := newAgentStub(t, map[string]string{
		"agent-roadmap": `{"phases":[]}`,
	})
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewSubmitAnalysisLogic(context.Background(), svcCtx)
	resp, err := l.SubmitAnalysis(&types.SubmitAnalysisReq{
		Surface: "roadmap",
		Profile: &types.BusinessProfile{
			BusinessType: "logistics",
			LaborCosts:   5000,
			ToolsCosts:   1200,
		},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"phases":[]}`, string(resp.Result))
	require.Contains(t, *lastMessage, "logistics")
	require.Contains(t, *lastMessage, "$6200.00")
}

func TestSubmitAnalysisProfileEmployeesBucket(t *testing.T) {
	stub, lastMessage := newAgentStub(t, map[string]string{
		"agent-cost": `{"currency":"USD"}`,
	})
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewSubmitAnalysisLogic(context.Background(), svcCtx)
	_, err := l.SubmitAnalysis(&types.SubmitAnalysisReq{
		Surface: "cost",
		Profile: &types.BusinessProfile{
			BusinessType: "bakery",
			Employees:    "11-50",
		},
	})
	require.NoError(t, err)
	require.Contains(t, *lastMessage, "Employee Count: 11-50")
}

func TestSubmitAnalysisRejectsEmptyInput(t *testing.T) {
	stub, _ := newAgentStub(t, nil)
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewSubmitAnalysisLogic(context.Background(), svcCtx)
	_, err := l.SubmitAnalysis(&types.SubmitAnalysisReq{Surface: "cost"})
	require.ErrorIs(t, err, ErrMissingInput)
}

func TestSubmitAnalysisUnknownSurface(t *testing.T) {
	stub, _ := newAgentStub(t, nil)
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewSubmitAnalysisLogic(context.Background(), svcCtx)
	_, err := l.SubmitAnalysis(&types.SubmitAnalysisReq{Surface: "pricing", Message: "hello"})
	require.ErrorIs(t, err, agentpkg.ErrUnknownSurface)
}

func TestAssessmentTurnKeepsSession(t *testing.T) {
	stub, _ := newAgentStub(t, map[string]string{
		"agent-cost": "**Start** with an intake review.",
	})
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewAssessmentLogic(context.Background(), svcCtx)
	resp, err := l.Assessment(&types.AssessmentReq{Surface: "cost", Message: "where do I begin?"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionId)
	require.Equal(t, "Start with an intake review.", resp.Reply)

	again, err := l.Assessment(&types.AssessmentReq{
		Surface:   "cost",
		SessionId: resp.SessionId,
		Message:   "and then?",
	})
	require.NoError(t, err)
	require.Equal(t, resp.SessionId, again.SessionId)
}

func TestListSurfaces(t *testing.T) {
	stub, _ := newAgentStub(t, nil)
	svcCtx := newTestServiceContext(t, stub.URL)

	l := NewListSurfacesLogic(context.Background(), svcCtx)
	resp, err := l.ListSurfaces()
	require.NoError(t, err)
	require.Equal(t, []string{"cost", "roadmap"}, resp.Surfaces)
}
