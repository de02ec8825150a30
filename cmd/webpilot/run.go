package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webpilot/webpilot/pkg/agent"
	"github.com/webpilot/webpilot/pkg/config"
	"github.com/webpilot/webpilot/pkg/report"
	"github.com/webpilot/webpilot/pkg/runner"
)

func newRunCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [instructions-file]",
		Short: "Execute a test batch from a file or stdin and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			instructions, err := readInstructions(args)
			if err != nil {
				return err
			}

			store := report.NewStore(cfg.Report.Path, cfg.Report.TestSuite)

			observer := agent.WithMessageObserver(func(text string) {
				fmt.Println(text)
			})
			batch, err := newBatchFunc(cfg, store, observer)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry := runner.NewRegistry()
			task := registry.Create(instructions)

			go answerPrompts(ctx, task)

			batch(ctx, task, instructions)

			snapshot := task.Snapshot()
			if snapshot.Status == runner.StatusError {
				return fmt.Errorf("batch failed: %s", snapshot.Message)
			}
			fmt.Println(snapshot.Message)
			return nil
		},
	}
	return cmd
}

func readInstructions(args []string) (string, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read instructions: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no instructions provided")
	}
	return string(data), nil
}

// answerPrompts relays questions the run cannot answer on its own to the
// terminal and feeds typed responses back to the task.
func answerPrompts(ctx context.Context, task *runner.Task) {
	reader := bufio.NewReader(os.Stdin)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if !task.NeedsInput() {
			continue
		}
		fmt.Printf("\n%s\n> ", task.Prompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		task.ProvideInput(strings.TrimSpace(line))
	}
}
