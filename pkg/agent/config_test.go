package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const configFixture = `
endpoint: "https://inference.example.com/v3/chat/"
api_key: "${AETHERIUS_API_KEY}"
user_id: "ops@example.com"
timeout: "5s"
max_retries: 2
log_level: "debug"

surfaces:
  swot:
    agent_id: "agent-swot-1"
  cost:
    agent_id: "agent-cost-1"
    schema: "cost.json"
`

func TestLoadConfigFromReader(t *testing.T) {
	t.Setenv(envAPIKey, "override-key")
	t.Setenv(envTimeout, "45s")
	t.Setenv(envMaxRetries, "5")

	cfg, err := LoadConfigFromReader(strings.NewReader(configFixture))
	require.NoError(t, err)

	require.Equal(t, "https://inference.example.com/v3/chat/", cfg.Endpoint)
	require.Equal(t, "override-key", cfg.APIKey)
	require.Equal(t, "ops@example.com", cfg.UserID)
	require.Equal(t, 45*time.Second, cfg.Timeout)
	require.Equal(t, 5, cfg.MaxRetries)

	surface, ok := cfg.Surface("cost")
	require.True(t, ok)
	require.Equal(t, "agent-cost-1", surface.AgentID)
	require.Equal(t, "cost.json", surface.Schema)
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv(envAPIKey, "k")

	data := `
endpoint: "https://inference.example.com/"
api_key: "k"
user_id: "u"
surfaces:
  swot:
    agent_id: "a"
`
	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, defaultTimeout, cfg.Timeout)
	require.Equal(t, defaultMaxRetries, cfg.MaxRetries)
	require.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Endpoint:   "https://inference.example.com/",
			APIKey:     "k",
			UserID:     "u",
			Timeout:    time.Second,
			MaxRetries: 3,
			Surfaces:   map[string]SurfaceConfig{"swot": {AgentID: "a"}},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.APIKey = " "
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Endpoint = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.UserID = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Timeout = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Surfaces = nil
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Surfaces["roadmap"] = SurfaceConfig{}
	require.Error(t, cfg.Validate())
}

func TestConfigSurfaceLookup(t *testing.T) {
	cfg := &Config{Surfaces: map[string]SurfaceConfig{"swot": {AgentID: "a"}}}

	_, ok := cfg.Surface("SWOT")
	require.True(t, ok, "lookup is case-insensitive")

	_, ok = cfg.Surface(" swot ")
	require.True(t, ok, "lookup trims whitespace")

	_, ok = cfg.Surface("unknown")
	require.False(t, ok)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Endpoint: "https://inference.example.com/",
		Surfaces: map[string]SurfaceConfig{"swot": {AgentID: "a"}},
	}
	cp := cfg.Clone()
	cp.Surfaces["swot"] = SurfaceConfig{AgentID: "changed"}
	require.Equal(t, "a", cfg.Surfaces["swot"].AgentID)
}
