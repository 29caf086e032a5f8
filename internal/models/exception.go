package models

import "fmt"

// ExceptionRule exempts one library or pattern from blocking for one repository.
// The (Repository, Lib) pair is the identity; the governance service owns
// uniqueness.
type ExceptionRule struct {
	Repository string `json:"repository" yaml:"repository"`
	Lib        string `json:"lib" yaml:"lib"`
}

// Key returns the composite identity of the rule.
func (e ExceptionRule) Key() string {
	return e.Repository + "\x00" + e.Lib
}

func (e ExceptionRule) String() string {
	return fmt.Sprintf("%s: %s", e.Repository, e.Lib)
}
