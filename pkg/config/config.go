// Package config loads webpilot configuration from a YAML file with
// sensible defaults and environment fallbacks for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is absent or a field is zero.
const (
	DefaultModel           = "computer-use-preview"
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultSummaryModel    = "gpt-4o"
	DefaultMaxTurns        = 20
	DefaultListenAddr      = ":5001"
	DefaultMaxConnections  = 64
	DefaultViewportWidth   = 1024
	DefaultViewportHeight  = 768
	DefaultInputTimeoutMin = 10
)

// LLM configures the decision-service client.
type LLM struct {
	Model        string `yaml:"model"`
	SummaryModel string `yaml:"summary_model"`
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
}

// Browser configures the playwright action executor.
type Browser struct {
	Headless       bool `yaml:"headless"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
}

// Runner configures the test-case supervisor.
type Runner struct {
	MaxTurns            int `yaml:"max_turns"`
	InputTimeoutMinutes int `yaml:"input_timeout_minutes"`
}

// Server configures the HTTP front end.
type Server struct {
	ListenAddr     string `yaml:"listen_addr"`
	MaxConnections int    `yaml:"max_connections"`
}

// Report configures result persistence.
type Report struct {
	Path      string `yaml:"path"`
	TestSuite string `yaml:"test_suite"`
}

// Config is the root configuration document.
type Config struct {
	LLM       LLM      `yaml:"llm"`
	Browser   Browser  `yaml:"browser"`
	Runner    Runner   `yaml:"runner"`
	Server    Server   `yaml:"server"`
	Report    Report   `yaml:"report"`
	Blocklist []string `yaml:"blocklist"`
}

// Load reads the configuration file at path. A missing file is not an
// error; defaults and environment variables apply either way. If path is
// empty, ~/.webpilot/config.yaml is used.
func Load(path string) (*Config, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".webpilot", "config.yaml")
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.SummaryModel == "" {
		c.LLM.SummaryModel = DefaultSummaryModel
	}
	if c.LLM.BaseURL == "" {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			c.LLM.BaseURL = envBaseURL
		} else {
			c.LLM.BaseURL = DefaultBaseURL
		}
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Browser.ViewportWidth == 0 {
		c.Browser.ViewportWidth = DefaultViewportWidth
	}
	if c.Browser.ViewportHeight == 0 {
		c.Browser.ViewportHeight = DefaultViewportHeight
	}
	if c.Runner.MaxTurns == 0 {
		c.Runner.MaxTurns = DefaultMaxTurns
	}
	if c.Runner.InputTimeoutMinutes == 0 {
		c.Runner.InputTimeoutMinutes = DefaultInputTimeoutMin
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = DefaultMaxConnections
	}
	if c.Report.Path == "" {
		c.Report.Path = filepath.Join("test_reports", "test_case_report.json")
	}
	if c.Report.TestSuite == "" {
		c.Report.TestSuite = "Automation Test Suite"
	}
}
