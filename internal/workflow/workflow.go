// Package workflow holds the console's view state machine. Transition is a
// pure function: it never performs I/O, it only returns the effects the
// caller must execute and feed back as events.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

// View is the active screen.
type View int

const (
	Landing View = iota
	Scanning
	Dashboard
	Governance
)

func (v View) String() string {
	switch v {
	case Landing:
		return "landing"
	case Scanning:
		return "scanning"
	case Dashboard:
		return "dashboard"
	case Governance:
		return "governance"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// State is everything the console renders.
type State struct {
	View View

	// Prev is the last non-governance view, used by Back.
	Prev View

	// RepoInput is the identifier last submitted from Landing. Reset clears it.
	RepoInput string

	// ScanID correlates a StartScan effect with its ScanCompleted event.
	ScanID      int
	ScanPending bool
	ScanRepo    string

	Reports  []models.ScanReport
	Baseline []models.ScanReport

	Exceptions []models.ExceptionRule
	FetchedAt  time.Time
	Writing    bool

	// ListGen numbers every exception fetch, writes included. ListShown is
	// the generation on screen; older results are dropped.
	ListGen   int
	ListShown int

	// Notice is a one-line operator message, cleared by the next view change.
	Notice string
}

// New returns the initial state showing baseline on the dashboard.
func New(baseline []models.ScanReport) State {
	return State{
		View:       Landing,
		Prev:       Landing,
		Reports:    models.CloneReports(baseline),
		Baseline:   models.CloneReports(baseline),
		Exceptions: []models.ExceptionRule{},
	}
}

// Event is an input to Transition.
type Event interface{ isEvent() }

// Submit asks for a scan of Repository.
type Submit struct{ Repository string }

// ScanCompleted carries the outcome of a StartScan effect.
type ScanCompleted struct {
	ScanID int
	Result *scan.Result
	Err    error
}

// ViewHistory opens the dashboard on the current report set.
type ViewHistory struct{}

// Reset returns to Landing and reloads the baseline.
type Reset struct{}

// OpenGovernance opens the exception manager and refreshes its list.
type OpenGovernance struct{}

// Back leaves Governance for the view it was opened from.
type Back struct{}

// ExceptionsLoaded carries a fetched exception list.
type ExceptionsLoaded struct {
	Gen   int
	Rules []models.ExceptionRule
	At    time.Time
}

// AddException requests a new exception.
type AddException struct{ Repository, Lib string }

// RemoveException requests removal of an exact pair.
type RemoveException struct{ Rule models.ExceptionRule }

// ExceptionWritten carries the outcome of a WriteException effect. Rules is
// the list refetched after a successful write.
type ExceptionWritten struct {
	Gen   int
	Op    Op
	Rule  models.ExceptionRule
	Rules []models.ExceptionRule
	Err   error
	At    time.Time
}

func (Submit) isEvent()           {}
func (ScanCompleted) isEvent()    {}
func (ViewHistory) isEvent()      {}
func (Reset) isEvent()            {}
func (OpenGovernance) isEvent()   {}
func (Back) isEvent()             {}
func (ExceptionsLoaded) isEvent() {}
func (AddException) isEvent()     {}
func (RemoveException) isEvent()  {}
func (ExceptionWritten) isEvent() {}

// Effect is work Transition asks the caller to perform.
type Effect interface{ isEffect() }

// StartScan runs the orchestrator for Repository.
type StartScan struct {
	ScanID     int
	Repository string
}

// CancelScan abandons the pending scan.
type CancelScan struct{ ScanID int }

// RefreshExceptions fetches the exception list.
type RefreshExceptions struct{ Gen int }

// Op names an exception write.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// WriteException adds or removes Rule, then refetches the list.
type WriteException struct {
	Gen  int
	Op   Op
	Rule models.ExceptionRule
}

func (StartScan) isEffect()         {}
func (CancelScan) isEffect()        {}
func (RefreshExceptions) isEffect() {}
func (WriteException) isEffect()    {}

// Transition applies ev to s. The input state is not modified.
func Transition(s State, ev Event) (State, []Effect) {
	// while a scan is on screen only the governance shortcut and the
	// scan's own completion get through
	if s.View == Scanning {
		switch ev.(type) {
		case OpenGovernance, ScanCompleted, ExceptionsLoaded:
		default:
			return s, nil
		}
	}

	switch e := ev.(type) {
	case Submit:
		return submit(s, e)
	case ScanCompleted:
		return completeScan(s, e)
	case ViewHistory:
		if s.View != Landing {
			return s, nil
		}
		s.View = Dashboard
		s.Notice = ""
		return s, nil
	case Reset:
		return reset(s)
	case OpenGovernance:
		if s.View != Governance {
			s.Prev = s.View
			s.View = Governance
			s.Notice = ""
		}
		s.ListGen++
		return s, []Effect{RefreshExceptions{Gen: s.ListGen}}
	case Back:
		if s.View != Governance {
			return s, nil
		}
		s.View = s.Prev
		if s.ScanPending {
			s.View = Scanning
		}
		s.Notice = ""
		return s, nil
	case ExceptionsLoaded:
		if e.Gen < s.ListShown {
			// a newer list already landed
			return s, nil
		}
		s.Exceptions = nonNil(e.Rules)
		s.FetchedAt = e.At
		s.ListShown = e.Gen
		return s, nil
	case AddException:
		return addException(s, e)
	case RemoveException:
		if s.View != Governance || s.Writing {
			return s, nil
		}
		s.Writing = true
		s.Notice = ""
		s.ListGen++
		return s, []Effect{WriteException{Gen: s.ListGen, Op: OpRemove, Rule: e.Rule}}
	case ExceptionWritten:
		return exceptionWritten(s, e)
	}
	return s, nil
}

func submit(s State, e Submit) (State, []Effect) {
	if s.View != Landing {
		return s, nil
	}
	repo := strings.TrimSpace(e.Repository)
	if repo == "" {
		return s, nil
	}

	s.ScanID++
	s.ScanPending = true
	s.ScanRepo = repo
	s.RepoInput = e.Repository
	s.View = Scanning
	s.Notice = ""
	return s, []Effect{StartScan{ScanID: s.ScanID, Repository: repo}}
}

func completeScan(s State, e ScanCompleted) (State, []Effect) {
	if !s.ScanPending || e.ScanID != s.ScanID {
		// cancelled or superseded
		return s, nil
	}

	s.ScanPending = false
	s.View = Dashboard
	s.Prev = Dashboard

	switch {
	case e.Err != nil:
		s.Reports = models.CloneReports(s.Baseline)
		s.Notice = fmt.Sprintf("Scan of %s failed: %v", s.ScanRepo, e.Err)
	case e.Result == nil || e.Result.Report == nil:
		if e.Result != nil {
			s.Reports = models.CloneReports(e.Result.Reports)
		} else {
			s.Reports = models.CloneReports(s.Baseline)
		}
		s.Notice = fmt.Sprintf("No report returned for %s; showing audit history", s.ScanRepo)
	default:
		s.Reports = models.CloneReports(e.Result.Reports)
		s.Notice = ""
	}
	return s, nil
}

func reset(s State) (State, []Effect) {
	var effects []Effect
	if s.ScanPending {
		effects = append(effects, CancelScan{ScanID: s.ScanID})
		s.ScanPending = false
	}

	s.View = Landing
	s.Prev = Landing
	s.RepoInput = ""
	s.ScanRepo = ""
	s.Reports = models.CloneReports(s.Baseline)
	s.Notice = ""
	return s, effects
}

func addException(s State, e AddException) (State, []Effect) {
	if s.View != Governance || s.Writing {
		return s, nil
	}
	if strings.TrimSpace(e.Repository) == "" || strings.TrimSpace(e.Lib) == "" {
		s.Notice = "Repository and lib are both required"
		return s, nil
	}

	s.Writing = true
	s.Notice = ""
	s.ListGen++
	return s, []Effect{WriteException{
		Gen:  s.ListGen,
		Op:   OpAdd,
		Rule: models.ExceptionRule{Repository: e.Repository, Lib: e.Lib},
	}}
}

func exceptionWritten(s State, e ExceptionWritten) (State, []Effect) {
	s.Writing = false
	if e.Err != nil {
		// the displayed list stays as it was
		s.Notice = fmt.Sprintf("Could not %s exception: %v", e.Op, e.Err)
		return s, nil
	}

	if e.Gen >= s.ListShown {
		s.Exceptions = nonNil(e.Rules)
		s.FetchedAt = e.At
		s.ListShown = e.Gen
	}
	switch e.Op {
	case OpAdd:
		s.Notice = fmt.Sprintf("Exception added: %s", e.Rule)
	case OpRemove:
		s.Notice = fmt.Sprintf("Exception removed: %s", e.Rule)
	}
	return s, nil
}

func nonNil(rules []models.ExceptionRule) []models.ExceptionRule {
	out := make([]models.ExceptionRule, len(rules))
	copy(out, rules)
	return out
}
