package agent

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real inference call. It skips by
// default if the cassette is absent and RECORD_CASSETTES != 1. Recording
// requires AETHERIUS_API_KEY to be set to a live key.
func TestClient_Converse_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "inference_chat.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	cfg, err := LoadConfig(filepath.Join("testdata", "agent.yaml"))
	if err != nil {
		t.Skipf("no recorded-test config available: %v", err)
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	client, err := NewClient(cfg, WithHTTPClient(&http.Client{Transport: r}))
	assert.NoError(t, err, "NewClient should not error")

	surface, ok := cfg.Surface(SurfaceSWOT)
	assert.True(t, ok, "swot surface should be configured")

	env, err := client.Converse(context.Background(), &ConverseRequest{
		AgentID: surface.AgentID,
		Message: "A bakery with 5 employees looking to automate invoicing",
	})
	assert.NoError(t, err, "Converse should not error")
	assert.NotNil(t, env, "envelope should not be nil")
	assert.NotEmpty(t, env.Response, "response should not be empty")
}
