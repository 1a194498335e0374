package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillstore/skillstore/internal/core/download"
)

type advanceMsg struct{ result download.Result }

type completeMsg struct{ summary download.Summary }

// progressModel renders a spinner, a progress bar and the latest result
// while a download batch runs.
type progressModel struct {
	title   string
	total   int
	done    int
	failed  int
	width   int
	spinner spinner.Model
	bar     progress.Model
	toast   toastModel
	closed  bool
}

func newProgressModel(title string, total int) progressModel {
	return progressModel{
		title: title,
		total: total,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		toast: newToastModel(),
	}
}

func (m progressModel) Init() tea.Cmd { return m.spinner.Tick }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.closed = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case advanceMsg:
		m.done++
		if msg.result.Status == download.StatusFailed {
			m.failed++
		}
		var cmd tea.Cmd
		m.toast, cmd = m.toast.showResult(msg.result)
		return m, cmd

	case completeMsg:
		m.done = msg.summary.Total
		m.closed = true
		return m, tea.Quit

	case toastDismissMsg:
		m.toast = m.toast.update(msg)
		return m, nil
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	if m.closed {
		return ""
	}
	var b strings.Builder
	head := fmt.Sprintf("%s %s %s", m.spinner.View(), m.title, mutedStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.failed > 0 {
		head += " " + errorStyle.Render(fmt.Sprintf("%d failed", m.failed))
	}
	b.WriteString(Truncate(head, m.width))
	b.WriteString("\n  ")
	b.WriteString(m.bar.ViewAs(m.percent()))
	if line := m.toast.view(); line != "" {
		b.WriteString("\n  ")
		b.WriteString(Truncate(line, m.width-2))
	}
	b.WriteString("\n")
	return b.String()
}
