package report

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webpilot/webpilot/pkg/types"
)

// ExportScreenshots decodes every stored screenshot in the session to a
// PNG file under dir, named by test case number. It returns the number of
// files written; results without screenshot data are skipped, and a
// truncated or undecodable screenshot is an error for that entry only.
func ExportScreenshots(session *types.Session, dir string) (int, []error) {
	if session == nil || len(session.TestCases) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, []error{fmt.Errorf("failed to create screenshots directory: %w", err)}
	}

	written := 0
	var errs []error
	for i, tc := range session.TestCases {
		if tc.Screenshot == "" {
			continue
		}
		if strings.HasSuffix(tc.Screenshot, "...") {
			errs = append(errs, fmt.Errorf("test case %s: screenshot data is truncated", tc.Number))
			continue
		}

		data, err := base64.StdEncoding.DecodeString(tc.Screenshot)
		if err != nil {
			errs = append(errs, fmt.Errorf("test case %s: invalid screenshot data: %w", tc.Number, err))
			continue
		}

		name := fmt.Sprintf("testcase_%s.png", sanitizeFileName(tc.Number, i))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			errs = append(errs, fmt.Errorf("test case %s: %w", tc.Number, err))
			continue
		}
		written++
	}
	return written, errs
}

func sanitizeFileName(number string, index int) string {
	if number == "" {
		return fmt.Sprintf("untagged_%d", index+1)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, number)
}
