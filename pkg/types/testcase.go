package types

// Verdict is the Pass/Fail/Unknown classification of one test case run.
type Verdict string

const (
	VerdictPass    Verdict = "Pass"
	VerdictFail    Verdict = "Fail"
	VerdictUnknown Verdict = "Unknown"
)

// TestCaseBlock is one self-contained span of instruction text produced by
// the segmenter. Number and Name are empty for a single untagged block when
// the instructions declare no test case markers.
type TestCaseBlock struct {
	Number string
	Name   string
	Text   string
}

// Tagged reports whether the block carries a declared test case identifier.
func (b TestCaseBlock) Tagged() bool {
	return b.Number != ""
}

// TestCaseResult is the immutable outcome of executing one test case block.
type TestCaseResult struct {
	Number         string  `json:"test_case_number"`
	Name           string  `json:"test_case_name"`
	Result         Verdict `json:"result"`
	ExecutedAt     string  `json:"executed_at"`
	Instructions   string  `json:"instructions"`
	TerminalOutput string  `json:"terminal_output"`
	Screenshot     string  `json:"screenshot,omitempty"`
}
