package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/service"
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewEntry:
		body = a.renderEntry()
	case viewGoals:
		body = a.renderGoals()
	default:
		body = a.renderDashboard()
	}
	if a.status != "" {
		style := statusStyle
		if strings.HasPrefix(a.status, "error:") {
			style = errorStyle
		}
		body += "\n\n" + style.Render(a.status)
	}
	if a.overlay.Visible() {
		return a.renderOverlay(body)
	}
	return body
}

func (a *App) renderDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Today"))
	if a.loaded {
		b.WriteString(mutedStyle.Render("  " + a.summary.Day.Format("Mon 2 Jan")))
	}
	b.WriteString("\n\n")
	b.WriteString(a.renderProgress(repository.KindCalories, a.calBar))
	b.WriteString("\n\n")
	b.WriteString(a.renderProgress(repository.KindWater, a.waterBar))
	b.WriteString("\n\n")
	b.WriteString(renderHelp(a.keys.dashboardHelp()))
	return b.String()
}

func (a *App) renderProgress(kind repository.EntryKind, bar progress.Model) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(kindColor(kind)).Width(10).Render(kindLabel(kind))
	line := fmt.Sprintf("%s %s / %s",
		label,
		formatAmount(kind, a.summary.Total(kind)),
		formatAmount(kind, a.summary.Goals.For(kind)),
	)
	detail := fmt.Sprintf("%3.0f%%", a.summary.Progress(kind)*100)
	if a.summary.GoalMet(kind) {
		detail += " " + successStyle.Render("goal reached")
	} else if a.loaded {
		detail += " " + mutedStyle.Render(formatAmount(kind, a.summary.Remaining(kind))+" to go")
	}
	return line + "\n" + strings.Repeat(" ", 11) + bar.ViewAs(a.summary.Progress(kind)) + " " + detail
}

func (a *App) renderEntry() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add " + kindLabel(a.entryKind)))
	b.WriteString("\n\n")

	opts := service.QuickAddOptions(a.entryKind)
	cells := make([]string, 0, len(opts))
	for i, v := range opts {
		text := strconv.FormatFloat(v, 'f', -1, 64)
		if i == a.optionCursor {
			cells = append(cells, selectedStyle.Background(kindColor(a.entryKind)).Render(text))
			continue
		}
		cells = append(cells, optionStyle.Render(text))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, spaced(cells)...))
	b.WriteString("\n\n")

	amount := lipgloss.NewStyle().Bold(true).Foreground(kindColor(a.entryKind)).
		Render(formatAmount(a.entryKind, a.amount))
	fmt.Fprintf(&b, "  - %s +\n", amount)
	fmt.Fprintf(&b, "%s\n\n", mutedStyle.Render(fmt.Sprintf("  today %s", formatAmount(a.entryKind, a.summary.Total(a.entryKind)))))
	b.WriteString(renderHelp(a.keys.entryHelp()))
	return b.String()
}

func (a *App) renderGoals() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Daily goals"))
	b.WriteString("\n\n")
	labels := [2]string{"Calories (kcal)", "Water (ml)"}
	for i, l := range labels {
		cursor := "  "
		value := a.goalInputs[i]
		if i == a.goalField {
			cursor = "> "
			value += "_"
		}
		fmt.Fprintf(&b, "%s%-16s %s\n", cursor, l, value)
	}
	b.WriteString("\n")
	if a.modal == modalConfirmReset {
		b.WriteString(errorStyle.Render("Delete every diary entry? (y/n)"))
		b.WriteString("\n\n")
	}
	help := a.keys.goalsHelp()
	if a.services.Maintenance != nil {
		help = append(help, resetBinding)
	}
	b.WriteString(renderHelp(help))
	return b.String()
}

func (a *App) renderOverlay(background string) string {
	var content string
	q := a.overlay.Quote()
	switch {
	case a.overlay.Loading():
		content = mutedStyle.Render("Finding some motivation...")
	case q != nil:
		content = quoteStyle.Render("\""+q.Text+"\"") + "\n\n" + authorStyle.Render("- "+q.Author)
	default:
		content = successStyle.Render("Logged. Keep it up!")
	}
	box := overlayStyle.Render(content)
	if a.width == 0 || a.height == 0 {
		return background + "\n\n" + box
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}

func spaced(cells []string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func kindLabel(kind repository.EntryKind) string {
	if kind == repository.KindWater {
		return "Water"
	}
	return "Calories"
}

func kindColor(kind repository.EntryKind) lipgloss.Color {
	if kind == repository.KindWater {
		return colorWater
	}
	return colorCalories
}

func formatAmount(kind repository.EntryKind, v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + " " + kind.Unit()
}
