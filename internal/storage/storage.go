package storage

import (
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// RuleStorage defines the interface for persisting a governance exception list
type RuleStorage interface {
	// LoadRules returns the stored list, empty when nothing was saved yet
	LoadRules() ([]models.ExceptionRule, error)

	// SaveRules replaces the stored list
	SaveRules(rules []models.ExceptionRule) error
}
