package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/governance"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/workflow"
)

// mode represents the dashboard interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
)

// governance view focus targets, cycled with tab
const (
	focusRepo = iota
	focusLib
	focusList
	focusCount
)

const defaultTableHeight = 10

// Deps are the collaborators the console drives.
type Deps struct {
	Orchestrator *scan.Orchestrator
	Store        *governance.Store
	Log          logrus.FieldLogger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the top-level Bubble Tea model for the console.
type Model struct {
	state workflow.State
	deps  Deps
	ctx   context.Context

	// cancelScan aborts the in-flight scan, if any
	cancelScan context.CancelFunc

	// UI state
	repoInput    textinput.Model
	excRepoInput textinput.Model
	excLibInput  textinput.Model
	govFocus     int
	reportsTable table.Model
	excTable     table.Model
	spinner      spinner.Model
	visible      []models.ScanReport
	filters      filterState
	searchInput  textinput.Model
	sortBy       sortField
	mode         mode
	width        int
	height       int
	statusMsg    string
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// New creates a console model. ctx bounds every background call; cancelling
// it aborts a pending scan.
func New(ctx context.Context, deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	state := workflow.New(deps.Orchestrator.Baseline())

	repo := newInput("org/repository or https://github.com/org/repository", 255)
	repo.Focus()

	m := Model{
		state:        state,
		deps:         deps,
		ctx:          ctx,
		repoInput:    repo,
		excRepoInput: newInput("repository", 255),
		excLibInput:  newInput("lib or pattern", 214),
		searchInput:  newInput("search...", 64),
		reportsTable: newTable(reportColumns, nil, defaultTableHeight),
		excTable:     newTable(exceptionColumns, nil, defaultTableHeight),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleTitle)),
		sortBy:       sortByScanOrder,
		width:        80,
		height:       24,
	}
	m.excTable.Blur()
	m.rebuildTable()
	return m
}

// State returns the workflow state the model is rendering.
func (m Model) State() workflow.State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.reportsTable.SetWidth(msg.Width)
		m.excTable.SetWidth(msg.Width)
		tableH := msg.Height - headerHeight - detailHeight - 4
		setHeight(&m.reportsTable, tableH)
		setHeight(&m.excTable, tableH)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.state.ScanPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workflow.Event:
		return m.apply(msg)
	}

	return m, nil
}

// apply runs one transition, then turns its effects into commands.
func (m Model) apply(ev workflow.Event) (tea.Model, tea.Cmd) {
	prev := m.state.View
	next, effects := workflow.Transition(m.state, ev)
	m.state = next

	if w, ok := ev.(workflow.ExceptionWritten); ok && w.Err == nil && w.Op == workflow.OpAdd {
		m.excRepoInput.SetValue("")
		m.excLibInput.SetValue("")
	}

	cmds := make([]tea.Cmd, 0, len(effects)+1)
	for _, eff := range effects {
		if cmd := m.run(eff); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if next.View == workflow.Scanning && prev != workflow.Scanning {
		cmds = append(cmds, m.spinner.Tick)
	}

	if next.View != prev {
		m.enterView(next.View)
	}
	m.rebuildTable()
	return m, tea.Batch(cmds...)
}

// run executes an effect. Network work happens inside the returned command.
func (m *Model) run(eff workflow.Effect) tea.Cmd {
	switch e := eff.(type) {
	case workflow.StartScan:
		if m.cancelScan != nil {
			m.cancelScan()
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancelScan = cancel
		orch := m.deps.Orchestrator
		return func() tea.Msg {
			res, err := orch.Run(ctx, e.Repository)
			return workflow.ScanCompleted{ScanID: e.ScanID, Result: res, Err: err}
		}

	case workflow.CancelScan:
		if m.cancelScan != nil {
			m.cancelScan()
			m.cancelScan = nil
		}
		m.deps.Log.WithField("scan_id", e.ScanID).Info("scan cancelled")
		return nil

	case workflow.RefreshExceptions:
		store, ctx, now := m.deps.Store, m.ctx, m.deps.Now
		return func() tea.Msg {
			rules := store.List(ctx)
			return workflow.ExceptionsLoaded{Gen: e.Gen, Rules: rules, At: now()}
		}

	case workflow.WriteException:
		store, ctx, now := m.deps.Store, m.ctx, m.deps.Now
		return func() tea.Msg {
			var rules []models.ExceptionRule
			var err error
			switch e.Op {
			case workflow.OpAdd:
				rules, err = store.Add(ctx, e.Rule.Repository, e.Rule.Lib)
			case workflow.OpRemove:
				rules, err = store.Remove(ctx, e.Rule.Repository, e.Rule.Lib)
			}
			return workflow.ExceptionWritten{Gen: e.Gen, Op: e.Op, Rule: e.Rule, Rules: rules, Err: err, At: now()}
		}
	}
	return nil
}

// enterView moves input focus to match the new view.
func (m *Model) enterView(v workflow.View) {
	m.repoInput.Blur()
	m.excRepoInput.Blur()
	m.excLibInput.Blur()
	m.mode = modeNormal
	m.searchInput.Blur()
	m.statusMsg = ""

	switch v {
	case workflow.Landing:
		m.repoInput.SetValue(m.state.RepoInput)
		m.repoInput.Focus()
	case workflow.Governance:
		m.govFocus = focusRepo
		m.focusGovernance()
	}
}

func (m *Model) focusGovernance() {
	m.excRepoInput.Blur()
	m.excLibInput.Blur()
	m.excTable.Blur()
	switch m.govFocus {
	case focusRepo:
		m.excRepoInput.Focus()
	case focusLib:
		m.excLibInput.Focus()
	case focusList:
		m.excTable.Focus()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.cancelScan != nil {
			m.cancelScan()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Governance):
		return m.apply(workflow.OpenGovernance{})
	case key.Matches(msg, keys.Home):
		return m.apply(workflow.Reset{})
	}

	switch m.state.View {
	case workflow.Landing:
		return m.handleLandingKey(msg)
	case workflow.Dashboard:
		if m.mode == modeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleDashboardKey(msg)
	case workflow.Governance:
		return m.handleGovernanceKey(msg)
	}
	// scanning: only the global keys apply
	return m, nil
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return m.apply(workflow.Submit{Repository: m.repoInput.Value()})
	case key.Matches(msg, keys.History):
		return m.apply(workflow.ViewHistory{})
	}

	var cmd tea.Cmd
	m.repoInput, cmd = m.repoInput.Update(msg)
	return m, cmd
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.QuitLetter):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortField(sortFieldCount)
		m.rebuildTable()
		m.statusMsg = fmt.Sprintf("Sort: %s", sortFieldName(m.sortBy))
		return m, nil
	case key.Matches(msg, keys.ClearFilter):
		if m.filters == (filterState{}) {
			return m.apply(workflow.Reset{})
		}
		m.filters = filterState{}
		m.statusMsg = ""
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.reportsTable, cmd = m.reportsTable.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.SearchText = m.searchInput.Value()
		m.mode = modeNormal
		m.searchInput.Blur()
		m.rebuildTable()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleGovernanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m.apply(workflow.Back{})
	case key.Matches(msg, keys.NextField):
		m.govFocus = (m.govFocus + 1) % focusCount
		m.focusGovernance()
		return m, nil
	case key.Matches(msg, keys.PrevField):
		m.govFocus = (m.govFocus + focusCount - 1) % focusCount
		m.focusGovernance()
		return m, nil
	}

	if m.govFocus == focusList {
		switch {
		case key.Matches(msg, keys.Remove):
			rule := m.selectedException()
			if rule == nil {
				m.statusMsg = "Nothing to remove"
				return m, nil
			}
			return m.apply(workflow.RemoveException{Rule: *rule})
		case key.Matches(msg, keys.Refresh):
			return m.apply(workflow.OpenGovernance{})
		}
		var cmd tea.Cmd
		m.excTable, cmd = m.excTable.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Submit) {
		return m.apply(workflow.AddException{
			Repository: m.excRepoInput.Value(),
			Lib:        m.excLibInput.Value(),
		})
	}

	var cmd tea.Cmd
	if m.govFocus == focusRepo {
		m.excRepoInput, cmd = m.excRepoInput.Update(msg)
	} else {
		m.excLibInput, cmd = m.excLibInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) rebuildTable() {
	filtered := applyFilters(m.state.Reports, m.filters)
	sortReports(filtered, m.sortBy)
	m.visible = filtered
	setRows(&m.reportsTable, buildReportRows(filtered))
	setRows(&m.excTable, buildExceptionRows(m.state.Exceptions))
}

func (m *Model) selectedReport() *models.ScanReport {
	cursor := m.reportsTable.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[cursor]
}

func (m *Model) selectedException() *models.ExceptionRule {
	cursor := m.excTable.Cursor()
	if cursor < 0 || cursor >= len(m.state.Exceptions) {
		return nil
	}
	return &m.state.Exceptions[cursor]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderHeader(m.state.View, aggregator.Summarize(m.state.Reports), m.width))
	b.WriteString("\n")

	switch m.state.View {
	case workflow.Landing:
		b.WriteString(m.renderLanding())
	case workflow.Scanning:
		b.WriteString(m.renderScanning())
	case workflow.Dashboard:
		b.WriteString(m.renderDashboard())
	case workflow.Governance:
		b.WriteString(m.renderGovernance())
	}
	b.WriteString("\n")

	if m.state.Notice != "" {
		b.WriteString(styleNotice.Render(m.state.Notice))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderLanding() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Shadow AI & MCP architecture scan"))
	b.WriteString("\n\n")
	b.WriteString("Repository: ")
	b.WriteString(m.repoInput.View())
	return styleBody.Render(b.String())
}

func (m *Model) renderScanning() string {
	return styleBody.Render(fmt.Sprintf("%s Scanning %s ...", m.spinner.View(), m.state.ScanRepo))
}

func (m *Model) renderDashboard() string {
	var b strings.Builder

	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.reportsTable.View())
	b.WriteString("\n")
	b.WriteString(renderDetail(m.selectedReport(), m.width))
	return b.String()
}

func (m *Model) renderFooter() string {
	var left, right string
	switch m.state.View {
	case workflow.Landing:
		left = "enter:scan  tab:audit history  ctrl+g:governance  ctrl+c:quit"
	case workflow.Scanning:
		left = "ctrl+g:governance  ctrl+c:quit"
	case workflow.Dashboard:
		left = "q:quit  /:search  s:sort  esc:clear/new scan  ctrl+g:governance"
		right = fmt.Sprintf("%d/%d repositories", len(m.visible), len(m.state.Reports))
	case workflow.Governance:
		left = "tab:focus  enter:add  d:remove  r:refresh  esc:back  ctrl+r:new scan"
		right = fmt.Sprintf("%d exceptions", len(m.state.Exceptions))
	}

	if m.statusMsg != "" {
		right = strings.TrimSpace(m.statusMsg + "  " + right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program. Called from the console command.
// Returning cancels any scan still in flight.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
