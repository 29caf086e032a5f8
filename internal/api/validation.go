package api

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxRepositoryLength prevents pathological repository identifiers.
	MaxRepositoryLength = 255

	// MaxLibLength bounds exempted library or pattern names.
	MaxLibLength = 214
)

// ExceptionInput captures the fields of an exception write request.
type ExceptionInput struct {
	Repository string `json:"repository"`
	Lib        string `json:"lib"`
}

// Trimmed returns the input with surrounding whitespace removed.
func (in ExceptionInput) Trimmed() ExceptionInput {
	return ExceptionInput{
		Repository: strings.TrimSpace(in.Repository),
		Lib:        strings.TrimSpace(in.Lib),
	}
}

// ValidateRepository verifies a repository identifier. Both org/name and
// absolute URLs are accepted; the only hard requirements are presence,
// bounded length and no control characters.
func ValidateRepository(repo string) error {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return fmt.Errorf("repository is required")
	}
	if len(repo) > MaxRepositoryLength {
		return fmt.Errorf("repository exceeds %d characters", MaxRepositoryLength)
	}
	if hasControl(repo) {
		return fmt.Errorf("repository contains control characters")
	}
	return nil
}

// ValidateLib verifies an exempted library or pattern name.
func ValidateLib(lib string) error {
	lib = strings.TrimSpace(lib)
	if lib == "" {
		return fmt.Errorf("lib is required")
	}
	if len(lib) > MaxLibLength {
		return fmt.Errorf("lib exceeds %d characters", MaxLibLength)
	}
	if hasControl(lib) {
		return fmt.Errorf("lib contains control characters")
	}
	return nil
}

// ValidatePair checks only that both fields are present. Removes use it: they
// name a rule the store already holds, whatever its length or content.
func ValidatePair(in ExceptionInput) error {
	if strings.TrimSpace(in.Repository) == "" {
		return fmt.Errorf("repository is required")
	}
	if strings.TrimSpace(in.Lib) == "" {
		return fmt.Errorf("lib is required")
	}
	return nil
}

// ValidateExceptionInput checks an exception pair before it is sent or stored.
func ValidateExceptionInput(in ExceptionInput) error {
	if err := ValidateRepository(in.Repository); err != nil {
		return err
	}
	return ValidateLib(in.Lib)
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
