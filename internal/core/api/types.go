package api

// PluginInfo describes a plugin listed in the marketplace.
type PluginInfo struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Version      string `json:"version,omitempty"`
	Type         string `json:"type,omitempty"`
	Pricing      string `json:"pricing,omitempty"`
	Author       string `json:"author,omitempty"`
	Readme       string `json:"readme,omitempty"`
	SkillCount   int    `json:"skillCount,omitempty"`
	InstallCount int    `json:"installCount,omitempty"`
}

// SkillInfo describes a single skill.
type SkillInfo struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Version      string   `json:"version,omitempty"`
	Author       string   `json:"author,omitempty"`
	PluginSlug   string   `json:"pluginSlug,omitempty"`
	Readme       string   `json:"readme,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	InstallCount int      `json:"installCount,omitempty"`
}

// Pagination accompanies list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PluginList is one page of plugins.
type PluginList struct {
	Plugins    []PluginInfo
	Pagination Pagination
}

// ListOptions filters FetchPluginList. Zero values are omitted from the query.
type ListOptions struct {
	Type    string
	Pricing string
	Limit   int
	Page    int
}

// DefaultInstallMethod is reported when no method is given.
const DefaultInstallMethod = "cli"

type installReport struct {
	Method string `json:"method"`
}

// SkillInstallReport is the body of a single-skill install report.
type SkillInstallReport struct {
	Method string   `json:"method"`
	Agents []string `json:"agents,omitempty"`
}

// Telemetry event types.
const (
	EventInvoked   = "invoked"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// TelemetryEvent records one skill invocation.
type TelemetryEvent struct {
	SkillSlug string `json:"skill_slug"`
	EventType string `json:"event_type"`
	Success   bool   `json:"success"`
	ToolName  string `json:"tool_name,omitempty"`
}

// TelemetryResult is the outcome of a telemetry report.
type TelemetryResult struct {
	Success bool
	Error   string
}
