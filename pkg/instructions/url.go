package instructions

import "regexp"

var urlRe = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURL returns the first http(s) URL found in the instruction text,
// or "" when none is present. The runner navigates there before handing
// control to the decision service.
func ExtractURL(text string) string {
	return urlRe.FindString(text)
}
