package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// agentStub serves a canned response per agent ID and records messages.
func agentStub(t *testing.T, responses map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var messages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var sent map[string]string
		require.NoError(t, json.Unmarshal(body, &sent))
		messages = append(messages, sent["message"])

		text, ok := responses[sent["agent_id"]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		envelope, _ := json.Marshal(map[string]string{"response": text})
		_, _ = w.Write(envelope)
	}))
	t.Cleanup(server.Close)
	return server, &messages
}

func newTestAnalyzer(t *testing.T, server *httptest.Server, opts ...AnalyzerOption) *Analyzer {
	t.Helper()
	cfg := testConfig(server.URL)
	client, err := NewClient(cfg, WithRetryHandler(fastRetry(3)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	analyzer, err := NewAnalyzer(cfg, client, opts...)
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzerAnalyze(t *testing.T) {
	t.Run("clean JSON response", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-swot": `{"strengths":["local brand"],"weaknesses":[]}`,
		})
		analyzer := newTestAnalyzer(t, server)

		doc, err := analyzer.Analyze(context.Background(), SurfaceSWOT, "A bakery with 5 employees")
		require.NoError(t, err)
		require.JSONEq(t, `{"strengths":["local brand"],"weaknesses":[]}`, string(doc))
	})

	t.Run("language tag prefix", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-cost": "json\n{\"currency\":\"USD\",\"title\":\"Cost Plan\"}",
		})
		analyzer := newTestAnalyzer(t, server)

		doc, err := analyzer.Analyze(context.Background(), SurfaceCost, "A bakery with 5 employees")
		require.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(doc, &decoded))
		require.Equal(t, "USD", decoded["currency"])
		require.Equal(t, "Cost Plan", decoded["title"])
	})

	t.Run("markdown decorated response", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-roadmap": "## Roadmap\n\n```json\n{\"phases\":[{\"name\":\"**Pilot**\"}]}\n```",
		})
		analyzer := newTestAnalyzer(t, server)

		doc, err := analyzer.Analyze(context.Background(), SurfaceRoadmap, "plan please")
		require.NoError(t, err)

		var decoded struct {
			Phases []struct {
				Name string `json:"name"`
			} `json:"phases"`
		}
		require.NoError(t, json.Unmarshal(doc, &decoded))
		require.Len(t, decoded.Phases, 1)
		require.Equal(t, "Pilot", decoded.Phases[0].Name)
	})

	t.Run("preamble before payload", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-opportunity": "Here is your opportunity score:\n{\"score\":87}\nHope this helps!",
		})
		analyzer := newTestAnalyzer(t, server)

		doc, err := analyzer.Analyze(context.Background(), SurfaceOpportunity, "score me")
		require.NoError(t, err)
		require.JSONEq(t, `{"score":87}`, string(doc))
	})

	t.Run("truncated JSON surfaces parse error", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-swot": `{"strengths":["local brand"`,
		})
		analyzer := newTestAnalyzer(t, server)

		doc, err := analyzer.Analyze(context.Background(), SurfaceSWOT, "A bakery")
		require.Nil(t, doc, "no partial result on failure")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Contains(t, parseErr.Preview, "strengths")
	})

	t.Run("preview is capped", func(t *testing.T) {
		long := strings.Repeat("x", previewLimit*2)
		server, _ := agentStub(t, map[string]string{
			"agent-swot": long,
		})
		analyzer := newTestAnalyzer(t, server)

		_, err := analyzer.Analyze(context.Background(), SurfaceSWOT, "A bakery")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, strings.Repeat("x", previewLimit)+"...", parseErr.Preview)
	})

	t.Run("no payload at all", func(t *testing.T) {
		server, _ := agentStub(t, map[string]string{
			"agent-swot": "Sorry, I could not generate an analysis this time.",
		})
		analyzer := newTestAnalyzer(t, server)

		_, err := analyzer.Analyze(context.Background(), SurfaceSWOT, "A bakery")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("unknown surface", func(t *testing.T) {
		server, _ := agentStub(t, nil)
		analyzer := newTestAnalyzer(t, server)

		_, err := analyzer.Analyze(context.Background(), "pricing", "msg")
		require.ErrorIs(t, err, ErrUnknownSurface)
	})

	t.Run("empty message", func(t *testing.T) {
		server, messages := agentStub(t, nil)
		analyzer := newTestAnalyzer(t, server)

		_, err := analyzer.Analyze(context.Background(), SurfaceSWOT, "  ")
		require.ErrorIs(t, err, ErrEmptyMessage)
		require.Empty(t, *messages)
	})
}

func TestAnalyzerSchemaValidation(t *testing.T) {
	schemaDir := t.TempDir()
	schema := `{
		"type": "object",
		"required": ["currency", "title"],
		"properties": {
			"currency": {"type": "string"},
			"title": {"type": "string"}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(schemaDir, "cost.json"), []byte(schema), 0o644))

	newAnalyzerWithSchema := func(t *testing.T, response string) *Analyzer {
		server, _ := agentStub(t, map[string]string{"agent-cost": response})
		cfg := testConfig(server.URL)
		cfg.SchemaDir = schemaDir
		cfg.Surfaces[SurfaceCost] = SurfaceConfig{AgentID: "agent-cost", Schema: "cost.json"}

		client, err := NewClient(cfg, WithRetryHandler(fastRetry(0)))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		analyzer, err := NewAnalyzer(cfg, client)
		require.NoError(t, err)
		return analyzer
	}

	t.Run("conforming payload", func(t *testing.T) {
		analyzer := newAnalyzerWithSchema(t, `{"currency":"USD","title":"Cost Plan"}`)
		_, err := analyzer.Analyze(context.Background(), SurfaceCost, "bakery")
		require.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		analyzer := newAnalyzerWithSchema(t, `{"currency":"USD"}`)
		_, err := analyzer.Analyze(context.Background(), SurfaceCost, "bakery")
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		require.Equal(t, SurfaceCost, schemaErr.Surface)
		require.NotEmpty(t, schemaErr.Violations)
	})
}

func TestAnalyzerAnalyzeProfile(t *testing.T) {
	server, messages := agentStub(t, map[string]string{
		"agent-cost": `{"currency":"USD"}`,
	})
	analyzer := newTestAnalyzer(t, server)

	renderer, err := NewPromptRenderer("")
	require.NoError(t, err)

	profile := &Profile{
		BusinessType: "Bakery",
		Employees:    "2-10",
		PainPoints:   []string{"invoicing", "scheduling"},
		LaborCosts:   8000,
		ToolsCosts:   400,
	}
	_, err = analyzer.AnalyzeProfile(context.Background(), SurfaceCost, renderer, profile)
	require.NoError(t, err)

	require.Len(t, *messages, 1)
	sent := (*messages)[0]
	require.Contains(t, sent, "Business Type: Bakery")
	require.Contains(t, sent, "Employee Count: 2-10")
	require.Contains(t, sent, "invoicing, scheduling")
	require.Contains(t, sent, "Total: $8400.00")
}

func TestAnalyzerSurfaces(t *testing.T) {
	server, _ := agentStub(t, nil)
	analyzer := newTestAnalyzer(t, server)
	require.Equal(t, []string{"cost", "opportunity", "roadmap", "swot"}, analyzer.Surfaces())
}

func TestAnalyzerSessionContinuity(t *testing.T) {
	var sessions []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var sent map[string]string
		_ = json.Unmarshal(body, &sent)
		sessions = append(sessions, sent["session_id"])
		_, _ = fmt.Fprint(w, `{"response":"{\"ok\":true}"}`)
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(t, server)

	sessionID := NewSessionID()
	_, err := analyzer.AnalyzeSession(context.Background(), SurfaceSWOT, sessionID, "first answer")
	require.NoError(t, err)
	_, err = analyzer.AnalyzeSession(context.Background(), SurfaceSWOT, sessionID, "second answer")
	require.NoError(t, err)

	require.Equal(t, []string{sessionID, sessionID}, sessions)
}
