package types

import "fmt"

// Summary holds the derived statistics for one session. It is recomputed
// from the result list after every append and never stored independently.
type Summary struct {
	TotalTests int    `json:"total_tests"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Unknown    int    `json:"unknown"`
	PassRate   string `json:"pass_rate"`
}

// Session is the report document for one batch of test cases.
type Session struct {
	TestSuite     string           `json:"test_suite"`
	SessionID     string           `json:"session_id"`
	ExecutionDate string           `json:"execution_date"`
	TestCases     []TestCaseResult `json:"test_cases"`
	Summary       Summary          `json:"summary"`
}

// ComputeSummary derives the summary from a result list. Pass rate is a
// two-decimal percentage, "0%" when no results exist yet.
func ComputeSummary(results []TestCaseResult) Summary {
	s := Summary{TotalTests: len(results)}
	for _, r := range results {
		switch r.Result {
		case VerdictPass:
			s.Passed++
		case VerdictFail:
			s.Failed++
		default:
			s.Unknown++
		}
	}
	if s.TotalTests > 0 {
		s.PassRate = fmt.Sprintf("%.2f%%", float64(s.Passed)/float64(s.TotalTests)*100)
	} else {
		s.PassRate = "0%"
	}
	return s
}
