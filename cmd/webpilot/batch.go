package main

import (
	"context"
	"time"

	"github.com/webpilot/webpilot/pkg/agent"
	"github.com/webpilot/webpilot/pkg/config"
	"github.com/webpilot/webpilot/pkg/executor/browser"
	"github.com/webpilot/webpilot/pkg/llm/openai"
	"github.com/webpilot/webpilot/pkg/policy"
	"github.com/webpilot/webpilot/pkg/report"
	"github.com/webpilot/webpilot/pkg/runner"
	"github.com/webpilot/webpilot/pkg/server"
)

// newBatchFunc builds the per-batch bootstrap: each batch gets its own
// browser session, agent, and runner, all torn down when the batch ends.
// The report store is shared so sessions accumulate into one report file.
func newBatchFunc(cfg *config.Config, store *report.Store, agentOpts ...agent.Option) (server.BatchFunc, error) {
	blocklist, err := policy.NewBlocklist(cfg.Blocklist)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, task *runner.Task, instructions string) {
		b, err := browser.New(browser.Options{
			Headless: cfg.Browser.Headless,
			Width:    cfg.Browser.ViewportWidth,
			Height:   cfg.Browser.ViewportHeight,
		})
		if err != nil {
			task.Fail("Failed to start browser: " + err.Error())
			return
		}
		defer b.Close()

		provider, err := openai.NewProvider(cfg.LLM.APIKey,
			openai.WithModel(cfg.LLM.Model),
			openai.WithBaseURL(cfg.LLM.BaseURL),
		)
		if err != nil {
			task.Fail("Failed to initialize decision service: " + err.Error())
			return
		}

		opts := append([]agent.Option{
			agent.WithModel(cfg.LLM.Model),
			agent.WithBlocklist(blocklist),
		}, agentOpts...)
		ag := agent.New(provider, b, opts...)

		r := runner.New(ag, b, store, runner.Options{
			MaxTurns:     cfg.Runner.MaxTurns,
			InputTimeout: time.Duration(cfg.Runner.InputTimeoutMinutes) * time.Minute,
		})
		r.RunBatch(ctx, task, instructions)
	}, nil
}
