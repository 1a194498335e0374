package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillstore/skillstore/internal/core/agent"
)

// ErrPickerCancelled is returned when the user leaves the picker without
// confirming.
var ErrPickerCancelled = errors.New("agent selection cancelled")

// pickerModel is a multi-select list of agents.
type pickerModel struct {
	list      list.Model
	confirmed bool
	cancelled bool
}

func newPickerModel(agents []agent.Agent, preselected, detected []string) pickerModel {
	l := list.New(agentsToItems(agents, idSet(preselected), idSet(detected)), newAgentDelegate(), 60, 20)
	l.Title = "Install to which agents?"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = keys.help
	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		// Don't intercept keys while filtering.
		if m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			m = m.toggle(m.list.Index())
			return m, nil
		case key.Matches(msg, keys.ToggleAll):
			m = m.toggleAll()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}
	return m.list.View()
}

func (m pickerModel) toggle(index int) pickerModel {
	items := m.list.Items()
	if index < 0 || index >= len(items) {
		return m
	}
	it := items[index].(agentItem)
	it.selected = !it.selected
	m.list.SetItem(index, it)
	return m
}

// toggleAll selects every agent, or clears the selection when all are
// already selected.
func (m pickerModel) toggleAll() pickerModel {
	items := m.list.Items()
	all := true
	for _, item := range items {
		if !item.(agentItem).selected {
			all = false
			break
		}
	}
	for i, item := range items {
		it := item.(agentItem)
		it.selected = !all
		m.list.SetItem(i, it)
	}
	return m
}

func (m pickerModel) selected() []agent.Agent {
	var out []agent.Agent
	for _, item := range m.list.Items() {
		if it := item.(agentItem); it.selected {
			out = append(out, it.agent)
		}
	}
	return out
}

// PickAgents lets the user choose agents interactively. Agents listed in
// preselected start checked; detected ones are marked.
func PickAgents(in io.Reader, out io.Writer, agents []agent.Agent, preselected, detected []string) ([]agent.Agent, error) {
	p := tea.NewProgram(newPickerModel(agents, preselected, detected), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running agent picker: %w", err)
	}
	m := final.(pickerModel)
	if m.cancelled || !m.confirmed {
		return nil, ErrPickerCancelled
	}
	chosen := m.selected()
	if len(chosen) == 0 {
		return nil, fmt.Errorf("no agents selected (%s)", strings.Join(keyHelp(), ", "))
	}
	return chosen, nil
}

func keyHelp() []string {
	var out []string
	for _, b := range keys.help() {
		out = append(out, b.Help().Key+" "+b.Help().Desc)
	}
	return out
}
