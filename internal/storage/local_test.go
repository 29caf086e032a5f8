package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

func TestNewLocal(t *testing.T) {
	s := NewLocal("/tmp/test")
	if s.baseDir != "/tmp/test" {
		t.Errorf("expected baseDir=/tmp/test, got %s", s.baseDir)
	}
}

func TestGetStoragePath(t *testing.T) {
	s := NewLocal("/tmp/saga")
	if s.GetStoragePath() != "/tmp/saga" {
		t.Errorf("expected /tmp/saga, got %s", s.GetStoragePath())
	}
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "nested", "gov")
	s := NewLocal(baseDir)

	if err := s.EnsureDirectoryExists(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(baseDir); err != nil {
		t.Fatalf("expected storage directory to exist: %v", err)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	s := NewLocal(filepath.Join(t.TempDir(), "gov"))

	rules, err := s.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules on empty storage: %v", err)
	}
	if rules == nil || len(rules) != 0 {
		t.Fatalf("expected empty non-nil rules, got %v", rules)
	}
}

func TestRulesRoundTrip(t *testing.T) {
	s := NewLocal(filepath.Join(t.TempDir(), "gov"))

	want := []models.ExceptionRule{
		{Repository: "SAGA/meu-repo-node", Lib: "mcp-framework"},
		{Repository: "SAGA/backoffice-python-app", Lib: "langchain"},
	}
	if err := s.SaveRules(want); err != nil {
		t.Fatalf("SaveRules: %v", err)
	}

	got, err := s.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := os.Stat(s.rulesPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary rules file should not remain")
	}
}

func TestSaveRulesOverwrites(t *testing.T) {
	s := NewLocal(t.TempDir())

	if err := s.SaveRules([]models.ExceptionRule{{Repository: "a", Lib: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRules(nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(s.GetStoragePath(), RulesFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty JSON list, got %s", data)
	}
}

func TestLoadRulesCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(dir)
	if err := os.WriteFile(filepath.Join(dir, RulesFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadRules(); err == nil {
		t.Fatal("expected error for corrupt rules file")
	}
}
