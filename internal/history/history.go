/*
Package history persists the fingerprint of the last reported DV status.
*/
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// State is the on-disk record. LastStatusID is omitted when unknown.
type State struct {
	LastStatusID *string `json:"last_status_id,omitempty"`
}

type Store struct {
	filePath string
	logger   *slog.Logger
}

func NewStore(filePath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{filePath: filePath, logger: logger}
}

func (s *Store) FilePath() string {
	return s.filePath
}

// Load returns the stored identifier. A missing, unreadable or malformed file
// is reported as no prior state.
func (s *Store) Load() (string, bool) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("state file not found, treating as first run", "path", s.filePath)
			return "", false
		}
		s.logger.Warn("error reading state file, treating as first run", "path", s.filePath, "error", err)
		return "", false
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("error unmarshalling state JSON, treating as first run", "path", s.filePath, "error", err)
		return "", false
	}

	if state.LastStatusID == nil {
		return "", false
	}
	return *state.LastStatusID, true
}

// Save overwrites the file with id. The error is logged here; callers only
// use it for accounting.
func (s *Store) Save(id string) error {
	data, err := json.Marshal(State{LastStatusID: &id})
	if err != nil {
		s.logger.Error("error marshalling state for save", "error", err)
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := writeFileAtomic(s.filePath, data, 0o644); err != nil {
		s.logger.Error("error writing state file", "path", s.filePath, "error", err)
		return fmt.Errorf("write state file %s: %w", s.filePath, err)
	}

	s.logger.Info("saved status", "path", s.filePath, "status_id", id)
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
