package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// RulesFile is the file name of the exception list inside the base directory.
const RulesFile = "exceptions.json"

// LocalStorage implements RuleStorage using local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocal creates a new local storage instance
func NewLocal(baseDir string) *LocalStorage {
	return &LocalStorage{
		baseDir: baseDir,
	}
}

// LoadRules reads the persisted exception list. A missing file is an
// empty list.
func (s *LocalStorage) LoadRules() ([]models.ExceptionRule, error) {
	data, err := os.ReadFile(s.rulesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ExceptionRule{}, nil
		}
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	var rules []models.ExceptionRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	if rules == nil {
		rules = []models.ExceptionRule{}
	}
	return rules, nil
}

// SaveRules replaces the persisted exception list. The file is written
// to a temporary name first and renamed into place.
func (s *LocalStorage) SaveRules(rules []models.ExceptionRule) error {
	if err := s.EnsureDirectoryExists(); err != nil {
		return err
	}
	if rules == nil {
		rules = []models.ExceptionRule{}
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	tmp := s.rulesPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, s.rulesPath()); err != nil {
		return fmt.Errorf("failed to replace rules file: %w", err)
	}
	return nil
}

func (s *LocalStorage) rulesPath() string {
	return filepath.Join(s.baseDir, RulesFile)
}

// GetStoragePath returns the full path to the storage directory
func (s *LocalStorage) GetStoragePath() string {
	return s.baseDir
}

// EnsureDirectoryExists creates the storage directory if it doesn't exist
func (s *LocalStorage) EnsureDirectoryExists() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}
