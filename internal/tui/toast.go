package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillstore/skillstore/internal/core/download"
)

// toastType defines the visual style of a toast line.
type toastType int

const (
	toastSuccess toastType = iota
	toastError
	toastWarning
)

// toastAutoDismiss is how long a result line stays under the progress bar.
const toastAutoDismiss = 3 * time.Second

// toastModel shows the most recent per-skill result under the progress bar.
// Showing a new toast replaces the previous one.
type toastModel struct {
	active  bool
	message string
	kind    toastType
	id      int // monotonic, so stale dismiss timers are ignored

	nextID int
}

type toastDismissMsg struct {
	id int
}

func newToastModel() toastModel {
	return toastModel{}
}

func (m toastModel) show(message string, kind toastType) (toastModel, tea.Cmd) {
	m.active = true
	m.message = message
	m.kind = kind
	m.id = m.nextID
	m.nextID++

	id := m.id
	return m, tea.Tick(toastAutoDismiss, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// showResult turns a download result into a toast.
func (m toastModel) showResult(r download.Result) (toastModel, tea.Cmd) {
	switch r.Status {
	case download.StatusSuccess:
		return m.show(glyphSuccess+" "+r.Slug, toastSuccess)
	case download.StatusSkipped:
		return m.show(glyphSkipped+" "+r.Slug+" (skipped)", toastWarning)
	default:
		return m.show(glyphError+" "+r.Slug+": "+r.Error, toastError)
	}
}

func (m toastModel) dismiss() toastModel {
	m.active = false
	m.message = ""
	return m
}

func (m toastModel) update(msg tea.Msg) toastModel {
	if msg, ok := msg.(toastDismissMsg); ok && msg.id == m.id {
		return m.dismiss()
	}
	return m
}

func (m toastModel) view() string {
	if !m.active {
		return ""
	}
	switch m.kind {
	case toastError:
		return errorStyle.Render(m.message)
	case toastWarning:
		return warningStyle.Render(m.message)
	default:
		return successStyle.Render(m.message)
	}
}
