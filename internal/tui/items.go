package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/skillstore/skillstore/internal/core/agent"
)

// agentItem wraps an Agent for the picker list.
// Implements list.DefaultItem (Title + Description + FilterValue).
type agentItem struct {
	agent    agent.Agent
	selected bool
	detected bool
}

func (i agentItem) Title() string {
	box := "[ ] "
	if i.selected {
		box = "[x] "
	}
	title := box + i.agent.Name
	if i.detected {
		title += " " + successStyle.Render("(detected)")
	}
	return title
}

func (i agentItem) Description() string { return i.agent.ProjectPath }

func (i agentItem) FilterValue() string { return i.agent.ID + " " + i.agent.Name }

func agentsToItems(agents []agent.Agent, preselected, detected map[string]bool) []list.Item {
	items := make([]list.Item, len(agents))
	for i, a := range agents {
		items[i] = agentItem{agent: a, selected: preselected[a.ID], detected: detected[a.ID]}
	}
	return items
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
