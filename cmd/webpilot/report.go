package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webpilot/webpilot/pkg/config"
	"github.com/webpilot/webpilot/pkg/llm/openai"
	"github.com/webpilot/webpilot/pkg/report"
)

func newReportCmd(configPath *string) *cobra.Command {
	var (
		htmlPath       string
		screenshotsDir string
		narrative      bool
		clear          bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect or export the current test report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store := report.NewStore(cfg.Report.Path, cfg.Report.TestSuite)

			if clear {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Println("Report cleared")
				return nil
			}

			session, err := store.Load()
			if err != nil {
				return err
			}
			if session == nil {
				fmt.Println("No test report found")
				return nil
			}

			fmt.Printf("Test Suite: %s\nSession:    %s\nExecuted:   %s\n\n", session.TestSuite, session.SessionID, session.ExecutionDate)
			for _, tc := range session.TestCases {
				number := tc.Number
				if number == "" {
					number = "-"
				}
				fmt.Printf("  [%s] %s  %s\n", tc.Result, number, tc.Name)
			}
			s := session.Summary
			fmt.Printf("\nTotal: %d  Passed: %d  Failed: %d  Unknown: %d  Pass rate: %s\n", s.TotalTests, s.Passed, s.Failed, s.Unknown, s.PassRate)

			if htmlPath != "" {
				f, err := os.Create(htmlPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.RenderHTML(f, session); err != nil {
					return err
				}
				fmt.Printf("HTML report written to %s\n", htmlPath)
			}

			if screenshotsDir != "" {
				written, errs := report.ExportScreenshots(session, screenshotsDir)
				fmt.Printf("Exported %d screenshots to %s\n", written, screenshotsDir)
				for _, err := range errs {
					fmt.Fprintf(os.Stderr, "screenshot export: %v\n", err)
				}
			}

			if narrative {
				provider, err := openai.NewProvider(cfg.LLM.APIKey, openai.WithBaseURL(cfg.LLM.BaseURL))
				if err != nil {
					return err
				}
				text, err := report.GenerateNarrative(context.Background(), provider.NewChatProvider(cfg.LLM.SummaryModel), session)
				if err != nil {
					return err
				}
				fmt.Println("\n" + text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML rendering of the report to this path")
	cmd.Flags().StringVar(&screenshotsDir, "screenshots", "", "export final screenshots as PNG files into this directory")
	cmd.Flags().BoolVar(&narrative, "narrative", false, "generate an executive summary of the session")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete the current report")
	return cmd
}
