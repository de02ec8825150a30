package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/webpilot/webpilot/pkg/types"
)

// sessionTemplate renders one session report as a standalone HTML page.
var sessionTemplate = template.Must(template.New("session").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Test Session Report - {{.SessionID}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background: #f4f5f7; padding: 24px; }
.container { max-width: 1100px; margin: 0 auto; }
.header { background: #2d3748; color: #fff; padding: 24px; border-radius: 8px 8px 0 0; }
.header h1 { font-size: 22px; margin-bottom: 8px; }
.header .meta { font-size: 13px; opacity: 0.8; }
.summary { display: flex; gap: 16px; background: #fff; padding: 16px 24px; border-bottom: 1px solid #e2e8f0; }
.stat { flex: 1; text-align: center; padding: 12px; border-radius: 6px; background: #f7fafc; }
.stat .value { font-size: 26px; font-weight: 600; }
.stat.pass .value { color: #2f855a; }
.stat.fail .value { color: #c53030; }
.stat .label { font-size: 12px; text-transform: uppercase; color: #718096; }
.case { background: #fff; padding: 20px 24px; border-bottom: 1px solid #e2e8f0; }
.case h2 { font-size: 16px; margin-bottom: 6px; }
.badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 12px; font-weight: 600; }
.badge.Pass { background: #c6f6d5; color: #22543d; }
.badge.Fail { background: #fed7d7; color: #742a2a; }
.badge.Unknown { background: #e2e8f0; color: #4a5568; }
.case .meta { font-size: 12px; color: #718096; margin-bottom: 10px; }
.case pre { background: #f7fafc; border: 1px solid #e2e8f0; border-radius: 6px; padding: 12px; font-size: 12px; white-space: pre-wrap; max-height: 280px; overflow-y: auto; }
.case img { max-width: 100%; border: 1px solid #e2e8f0; border-radius: 6px; margin-top: 10px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.TestSuite}}</h1>
    <div class="meta">Session {{.SessionID}} &middot; Executed {{.ExecutionDate}}</div>
  </div>
  <div class="summary">
    <div class="stat"><div class="value">{{.Summary.TotalTests}}</div><div class="label">Total</div></div>
    <div class="stat pass"><div class="value">{{.Summary.Passed}}</div><div class="label">Passed</div></div>
    <div class="stat fail"><div class="value">{{.Summary.Failed}}</div><div class="label">Failed</div></div>
    <div class="stat"><div class="value">{{.Summary.Unknown}}</div><div class="label">Unknown</div></div>
    <div class="stat"><div class="value">{{.Summary.PassRate}}</div><div class="label">Pass Rate</div></div>
  </div>
  {{range .TestCases}}
  <div class="case">
    <h2>Test Case {{.Number}} &mdash; {{.Name}} <span class="badge {{.Result}}">{{.Result}}</span></h2>
    <div class="meta">Executed at {{.ExecutedAt}}</div>
    <pre>{{.TerminalOutput}}</pre>
    {{if .Screenshot}}<img src="data:image/png;base64,{{.Screenshot}}" alt="final screenshot">{{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`))

// RenderHTML writes a standalone HTML page for the given session.
func RenderHTML(w io.Writer, session *types.Session) error {
	if session == nil {
		return fmt.Errorf("no session to render")
	}
	if err := sessionTemplate.Execute(w, session); err != nil {
		return fmt.Errorf("failed to render session report: %w", err)
	}
	return nil
}
