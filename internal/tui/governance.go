package tui

import (
	"strings"

	"github.com/dustin/go-humanize"
)

func (m *Model) renderGovernance() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Policy exceptions"))
	b.WriteString("  ")
	b.WriteString(styleMuted.Render(m.refreshedLabel()))
	b.WriteString("\n\n")

	b.WriteString("Repository: ")
	b.WriteString(m.excRepoInput.View())
	b.WriteString("\n")
	b.WriteString("Lib:        ")
	b.WriteString(m.excLibInput.View())
	if m.state.Writing {
		b.WriteString("  ")
		b.WriteString(styleMuted.Render("saving..."))
	}
	b.WriteString("\n\n")

	if len(m.state.Exceptions) == 0 {
		b.WriteString(styleMuted.Render("No exceptions registered"))
		return styleBody.Render(b.String())
	}
	return styleBody.Render(b.String()) + "\n" + m.excTable.View()
}

// refreshedLabel reports the age of the displayed list.
func (m *Model) refreshedLabel() string {
	if m.state.FetchedAt.IsZero() {
		return "loading..."
	}
	return "refreshed " + humanize.RelTime(m.state.FetchedAt, m.deps.Now(), "ago", "from now")
}
