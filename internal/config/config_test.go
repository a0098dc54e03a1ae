package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "agent.yaml", `
endpoint: "https://inference.example.com/v3/chat/"
api_key: "file-key"
user_id: "svc@example.com"
surfaces:
  swot:
    agent_id: "agent-swot"
`)
	main := writeConfig(t, dir, "aetherius.yaml", `
Name: aetherius-api
Host: 0.0.0.0
Port: 8888
Env: dev
Agent:
  File: agent.yaml
`)

	cfg, err := Load(main)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.IsTestEnv())
	require.Equal(t, dir, cfg.BaseDir())

	require.NotNil(t, cfg.Agent.Value)
	require.Equal(t, "file-key", cfg.Agent.Value.APIKey)
	_, ok := cfg.Agent.Value.Surface("swot")
	require.True(t, ok)

	// TTL defaults applied by go-zero tags.
	require.Equal(t, 10, cfg.TTL.Short)
	require.Equal(t, 60, cfg.TTL.Medium)
	require.Equal(t, 300, cfg.TTL.Long)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	dir := t.TempDir()
	main := writeConfig(t, dir, "aetherius.yaml", `
Name: aetherius-api
Host: 0.0.0.0
Port: 8888
Env: staging
`)
	_, err := Load(main)
	require.Error(t, err)
}

func TestLoadWithoutAgentSection(t *testing.T) {
	dir := t.TempDir()
	main := writeConfig(t, dir, "aetherius.yaml", `
Name: aetherius-api
Host: 0.0.0.0
Port: 8888
`)
	cfg, err := Load(main)
	require.NoError(t, err)
	require.True(t, cfg.IsTestEnv())
	require.Nil(t, cfg.Agent.Value)
}
