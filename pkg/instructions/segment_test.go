package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const closingSentence = "Update the result in one word (Pass/Fail) in report against this test case number."

const twoCaseInstructions = `Open https://demo.bank.example/login and sign in with the standard test account.

TestCase Number - 1.1, Login Validation: Enter the username and password, click Sign In, and verify the account dashboard is displayed. ` + closingSentence + `

TestCase Number - 1.2, Balance Display: Navigate to the Accounts tab and verify the checking account balance is shown with two decimal places. ` + closingSentence

func TestSegmentNoMarkers(t *testing.T) {
	text := "Go to the settings page and toggle dark mode, then confirm the theme changes."
	blocks := Segment(text)

	require.Len(t, blocks, 1)
	assert.False(t, blocks[0].Tagged())
	assert.Empty(t, blocks[0].Number)
	assert.Empty(t, blocks[0].Name)
	assert.Equal(t, text, blocks[0].Text)
}

func TestSegmentMultipleMarkers(t *testing.T) {
	blocks := Segment(twoCaseInstructions)
	require.Len(t, blocks, 2)

	assert.Equal(t, "1.1", blocks[0].Number)
	assert.Equal(t, "Login Validation", blocks[0].Name)
	assert.True(t, blocks[0].Tagged())
	assert.Contains(t, blocks[0].Text, "https://demo.bank.example/login")
	assert.Contains(t, blocks[0].Text, "verify the account dashboard")
	assert.Contains(t, blocks[0].Text, closingSentence)
	assert.NotContains(t, blocks[0].Text, "Balance Display")

	assert.Equal(t, "1.2", blocks[1].Number)
	assert.Equal(t, "Balance Display", blocks[1].Name)
	assert.Contains(t, blocks[1].Text, "two decimal places")
	assert.NotContains(t, blocks[1].Text, "Login Validation")
}

func TestSegmentMissingClosingSentence(t *testing.T) {
	text := `TestCase Number - 2, First Check: Verify the header.

TestCase Number - 3, Second Check: Verify the footer.`

	blocks := Segment(text)
	require.Len(t, blocks, 2)

	// Without a closing sentence the first block ends at the next marker.
	assert.Equal(t, "2", blocks[0].Number)
	assert.NotContains(t, blocks[0].Text, "Second Check")
	assert.Equal(t, "3", blocks[1].Number)
	assert.Contains(t, blocks[1].Text, "Verify the footer.")
}

func TestSegmentCaseInsensitiveMarker(t *testing.T) {
	blocks := Segment("testcase number - 4 , Smoke Test: open the app. update the result in one word (pass/fail) in report against this test case number.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "4", blocks[0].Number)
	assert.Equal(t, "Smoke Test", blocks[0].Name)
}

func TestSegmentDeterministic(t *testing.T) {
	first := Segment(twoCaseInstructions)
	second := Segment(twoCaseInstructions)
	assert.Equal(t, first, second)
}

func TestExtractURL(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "HTTPS",
			text:     "Navigate to https://example.com/login and sign in.",
			expected: "https://example.com/login",
		},
		{
			name:     "HTTP",
			text:     "open http://localhost:8080 first",
			expected: "http://localhost:8080",
		},
		{
			name:     "FirstOfMany",
			text:     "Visit https://a.example then https://b.example",
			expected: "https://a.example",
		},
		{
			name:     "NoURL",
			text:     "Click the login button.",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractURL(tc.text))
		})
	}
}
