package server

import (
	"fmt"
	"sync"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/storage"
)

// RuleSet is the server-side exception list. Pairs are unique and kept in
// insertion order. When a RuleStorage is attached every change is written
// through before it becomes visible.
type RuleSet struct {
	mu      sync.Mutex
	rules   []models.ExceptionRule
	persist storage.RuleStorage
}

// NewRuleSet loads the initial list from persist, or starts empty when
// persist is nil.
func NewRuleSet(persist storage.RuleStorage) (*RuleSet, error) {
	rs := &RuleSet{rules: []models.ExceptionRule{}, persist: persist}
	if persist == nil {
		return rs, nil
	}

	loaded, err := persist.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	seen := make(map[string]bool, len(loaded))
	for _, r := range loaded {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		rs.rules = append(rs.rules, r)
	}
	return rs, nil
}

// List returns a copy of the current rules.
func (s *RuleSet) List() []models.ExceptionRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Add appends rule unless the pair already exists. It reports whether the
// list changed and returns the resulting list.
func (s *RuleSet) Add(rule models.ExceptionRule) (bool, []models.ExceptionRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(rule) >= 0 {
		return false, s.snapshot(), nil
	}

	next := append(s.snapshot(), rule)
	if err := s.save(next); err != nil {
		return false, nil, err
	}
	s.rules = next
	return true, s.snapshot(), nil
}

// Remove deletes the exact pair. It reports whether the pair was present.
func (s *RuleSet) Remove(rule models.ExceptionRule) (bool, []models.ExceptionRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(rule)
	if i < 0 {
		return false, s.snapshot(), nil
	}

	next := make([]models.ExceptionRule, 0, len(s.rules)-1)
	next = append(next, s.rules[:i]...)
	next = append(next, s.rules[i+1:]...)
	if err := s.save(next); err != nil {
		return false, nil, err
	}
	s.rules = next
	return true, s.snapshot(), nil
}

func (s *RuleSet) indexOf(rule models.ExceptionRule) int {
	for i, r := range s.rules {
		if r == rule {
			return i
		}
	}
	return -1
}

func (s *RuleSet) snapshot() []models.ExceptionRule {
	out := make([]models.ExceptionRule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s *RuleSet) save(rules []models.ExceptionRule) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveRules(rules); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	return nil
}
