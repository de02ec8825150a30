// Package report accumulates test case results into session report
// documents with running summary statistics, and persists the active
// session as a JSON file.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sync"

	"github.com/webpilot/webpilot/pkg/types"
)

// Store is the session reporter. Appends for the same session are
// serialized and the summary is recomputed on every append, so a reader
// never observes a partially updated document.
type Store struct {
	mu        sync.RWMutex
	path      string
	testSuite string
	current   *types.Session
}

// NewStore creates a reporter persisting to the given JSON file path.
func NewStore(path, testSuite string) *Store {
	return &Store{path: path, testSuite: testSuite}
}

// Append records a result under sessionID, creating the session if it
// does not exist, and returns a copy of the updated session. A new
// session ID replaces the previously persisted session: the report file
// always holds the most recent session.
func (s *Store) Append(sessionID string, result types.TestCaseResult) (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.SessionID != sessionID {
		// Adopt an on-disk session with a matching ID so a restarted
		// process keeps appending to the same report.
		if existing, err := s.load(); err == nil && existing != nil && existing.SessionID == sessionID {
			s.current = existing
		} else {
			s.current = &types.Session{
				TestSuite:     s.testSuite,
				SessionID:     sessionID,
				ExecutionDate: time.Now().Format("2006-01-02 15:04:05"),
			}
		}
	}

	s.current.TestCases = append(s.current.TestCases, result)
	s.current.Summary = types.ComputeSummary(s.current.TestCases)

	if err := s.persist(); err != nil {
		return nil, err
	}

	copied := *s.current
	copied.TestCases = append([]types.TestCaseResult(nil), s.current.TestCases...)
	return &copied, nil
}

// Load returns the persisted session, or nil when no report exists yet.
func (s *Store) Load() (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Clear removes the persisted report and forgets the current session.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove report file: %w", err)
	}
	return nil
}

func (s *Store) load() (*types.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	return &session, nil
}

// persist writes the current session with a temp-file rename so readers
// never see a torn document.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace report file: %w", err)
	}
	return nil
}
