package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultSummaryModel, cfg.LLM.SummaryModel)
	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, DefaultMaxTurns, cfg.Runner.MaxTurns)
	assert.Equal(t, DefaultInputTimeoutMin, cfg.Runner.InputTimeoutMinutes)
	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
	assert.Equal(t, DefaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, DefaultViewportWidth, cfg.Browser.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, cfg.Browser.ViewportHeight)
	assert.Equal(t, filepath.Join("test_reports", "test_case_report.json"), cfg.Report.Path)
	assert.False(t, cfg.Browser.Headless)
	assert.Empty(t, cfg.Blocklist)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: computer-use-preview-2
  api_key: sk-test
  base_url: https://proxy.internal/v1
browser:
  headless: true
  viewport_width: 1280
runner:
  max_turns: 30
server:
  listen_addr: ":8080"
report:
  test_suite: Checkout Suite
blocklist:
  - "*.badsite.example"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "computer-use-preview-2", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://proxy.internal/v1", cfg.LLM.BaseURL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, cfg.Browser.ViewportHeight)
	assert.Equal(t, 30, cfg.Runner.MaxTurns)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "Checkout Suite", cfg.Report.TestSuite)
	assert.Equal(t, []string{"*.badsite.example"}, cfg.Blocklist)
}

func TestLoadEnvironmentFallbacks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_BASE_URL", "https://env.example/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "https://env.example/v1", cfg.LLM.BaseURL)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: ["), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
