// Package instructions parses free-form test instructions into ordered
// test case blocks. Segmentation is pure text analysis: no side effects,
// and identical input always yields identical output.
package instructions

import (
	"regexp"
	"strings"

	"github.com/webpilot/webpilot/pkg/types"
)

// The marker and closing-sentence syntax is fixed and matched verbatim
// (case-insensitively). The id is a dot-separated numeric token and the
// name runs to the first colon.
var (
	markerRe  = regexp.MustCompile(`(?i)TestCase Number\s*-\s*([0-9.]+)\s*,\s*([^:]+):`)
	closingRe = regexp.MustCompile(`(?i)Update the result in one word \(Pass/Fail\) in report against this test case number\.`)
)

// Segment splits raw instruction text into ordered test case blocks. When
// no markers are present the whole text becomes one untagged block. A
// block's span starts after the previous block's closing sentence (or at
// the start of text) and ends at its own closing sentence before the next
// marker (or at the next marker, or end of text). Missing closing
// sentences never fail; the boundary falls back to the neighbouring
// marker.
func Segment(text string) []types.TestCaseBlock {
	markers := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return []types.TestCaseBlock{{Text: text}}
	}

	blocks := make([]types.TestCaseBlock, 0, len(markers))
	for i, m := range markers {
		start := m[0]
		number := strings.TrimSpace(text[m[2]:m[3]])
		name := strings.TrimSpace(text[m[4]:m[5]])

		// Start after the previous block's closing sentence if one exists.
		blockStart := 0
		if i > 0 {
			if closings := closingRe.FindAllStringIndex(text[:start], -1); len(closings) > 0 {
				blockStart = closings[len(closings)-1][1]
			}
		}

		// End at this block's closing sentence, else at the next marker,
		// else at end of text.
		blockEnd := len(text)
		if i < len(markers)-1 {
			blockEnd = markers[i+1][0]
			if closing := closingRe.FindStringIndex(text[start:blockEnd]); closing != nil {
				blockEnd = start + closing[1]
			}
		}

		blocks = append(blocks, types.TestCaseBlock{
			Number: number,
			Name:   name,
			Text:   strings.TrimSpace(text[blockStart:blockEnd]),
		})
	}
	return blocks
}
