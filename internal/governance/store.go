package governance

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// Backend is the remote exception list. *Client satisfies it.
type Backend interface {
	ListExceptions(ctx context.Context) ([]models.ExceptionRule, error)
	AddException(ctx context.Context, repository, lib string) error
	RemoveException(ctx context.Context, repository, lib string) error
}

// Store is the console's view of the exception list. It holds no cache:
// every successful write is followed by a fresh List, and callers replace
// whatever they displayed with the returned slice.
type Store struct {
	backend Backend
	log     logrus.FieldLogger
}

// NewStore wraps a backend. A nil logger discards output.
func NewStore(backend Backend, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{backend: backend, log: log}
}

// List fetches the exception set. Failures are logged and yield an empty,
// non-nil slice; the read path never surfaces an error.
func (s *Store) List(ctx context.Context) []models.ExceptionRule {
	rules, err := s.backend.ListExceptions(ctx)
	if err != nil {
		s.log.WithError(err).Warn("governance exceptions unavailable")
		return []models.ExceptionRule{}
	}
	if rules == nil {
		rules = []models.ExceptionRule{}
	}
	s.log.WithField("count", len(rules)).Debug("governance exceptions fetched")
	return rules
}

// Add creates an exception and returns the refetched list. On a
// ValidationError no request is sent. On any error the returned slice is
// nil and the caller keeps its current list.
func (s *Store) Add(ctx context.Context, repository, lib string) ([]models.ExceptionRule, error) {
	in, err := validate(repository, lib)
	if err != nil {
		return nil, err
	}

	if err := s.backend.AddException(ctx, in.Repository, in.Lib); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"repository": in.Repository,
			"lib":        in.Lib,
		}).Error("add exception failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"repository": in.Repository, "lib": in.Lib}).Info("exception added")
	return s.List(ctx), nil
}

// Remove deletes the exact pair and returns the refetched list. Removing a
// pair the service does not hold succeeds when the service says so.
func (s *Store) Remove(ctx context.Context, repository, lib string) ([]models.ExceptionRule, error) {
	if err := requirePair(repository, lib); err != nil {
		return nil, err
	}
	// the pair is sent as listed, untrimmed, so it matches the stored rule
	in := models.ExceptionRule{Repository: repository, Lib: lib}

	if err := s.backend.RemoveException(ctx, in.Repository, in.Lib); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"repository": in.Repository,
			"lib":        in.Lib,
		}).Error("remove exception failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"repository": in.Repository, "lib": in.Lib}).Info("exception removed")
	return s.List(ctx), nil
}
