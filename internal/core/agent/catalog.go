package agent

// definition is the raw, unexpanded catalog entry for an agent.
type definition struct {
	id          string
	name        string
	projectPath string
	globalPath  string
	detectPaths []string
}

// catalog lists every supported agent. Order is significant: it is the order
// used for listing and detection output.
var catalog = []definition{
	{
		id:          "amp",
		name:        "Amp",
		projectPath: ".agents/skills",
		globalPath:  "$XDG_CONFIG/agents/skills",
		detectPaths: []string{"$XDG_CONFIG/amp"},
	},
	{
		id:          "antigravity",
		name:        "Antigravity",
		projectPath: ".agent/skills",
		globalPath:  "~/.gemini/antigravity/skills",
		detectPaths: []string{"~/.gemini/antigravity"},
	},
	{
		id:          "claude-code",
		name:        "Claude Code",
		projectPath: ".claude/skills",
		globalPath:  "~/.claude/skills",
		detectPaths: []string{"~/.claude"},
	},
	{
		id:          "clawdbot",
		name:        "Clawdbot",
		projectPath: "skills",
		globalPath:  "~/.clawdbot/skills",
		detectPaths: []string{"~/.clawdbot"},
	},
	{
		id:          "cline",
		name:        "Cline",
		projectPath: ".cline/skills",
		globalPath:  "~/.cline/skills",
		detectPaths: []string{"~/.cline"},
	},
	{
		id:          "codebuddy",
		name:        "CodeBuddy",
		projectPath: ".codebuddy/skills",
		globalPath:  "~/.codebuddy/skills",
		detectPaths: []string{"~/.codebuddy"},
	},
	{
		id:          "codex",
		name:        "Codex",
		projectPath: ".codex/skills",
		globalPath:  "${CODEX_HOME:-~/.codex}/skills",
		detectPaths: []string{"${CODEX_HOME:-~/.codex}"},
	},
	{
		id:          "command-code",
		name:        "Command Code",
		projectPath: ".commandcode/skills",
		globalPath:  "~/.commandcode/skills",
		detectPaths: []string{"~/.commandcode"},
	},
	{
		id:          "continue",
		name:        "Continue",
		projectPath: ".continue/skills",
		globalPath:  "~/.continue/skills",
		detectPaths: []string{"~/.continue"},
	},
	{
		id:          "crush",
		name:        "Crush",
		projectPath: ".crush/skills",
		globalPath:  "$XDG_CONFIG/crush/skills",
		detectPaths: []string{"$XDG_CONFIG/crush"},
	},
	{
		id:          "cursor",
		name:        "Cursor",
		projectPath: ".cursor/skills",
		globalPath:  "~/.cursor/skills",
		detectPaths: []string{"~/.cursor"},
	},
	{
		id:          "droid",
		name:        "Droid",
		projectPath: ".factory/skills",
		globalPath:  "~/.factory/skills",
		detectPaths: []string{"~/.factory"},
	},
	{
		id:          "gemini-cli",
		name:        "Gemini CLI",
		projectPath: ".gemini/skills",
		globalPath:  "~/.gemini/skills",
		detectPaths: []string{"~/.gemini"},
	},
	{
		id:          "github-copilot",
		name:        "GitHub Copilot",
		projectPath: ".github/skills",
		globalPath:  "~/.copilot/skills",
		detectPaths: []string{"~/.copilot"},
	},
	{
		id:          "goose",
		name:        "Goose",
		projectPath: ".goose/skills",
		globalPath:  "$XDG_CONFIG/goose/skills",
		detectPaths: []string{"$XDG_CONFIG/goose"},
	},
	{
		id:          "kilo",
		name:        "Kilo Code",
		projectPath: ".kilocode/skills",
		globalPath:  "~/.kilocode/skills",
		detectPaths: []string{"~/.kilocode"},
	},
	{
		id:          "kiro-cli",
		name:        "Kiro CLI",
		projectPath: ".kiro/skills",
		globalPath:  "~/.kiro/skills",
		detectPaths: []string{"~/.kiro"},
	},
	{
		id:          "mcpjam",
		name:        "MCPJam",
		projectPath: ".mcpjam/skills",
		globalPath:  "~/.mcpjam/skills",
		detectPaths: []string{"~/.mcpjam"},
	},
	{
		id:          "mux",
		name:        "Mux",
		projectPath: ".mux/skills",
		globalPath:  "~/.mux/skills",
		detectPaths: []string{"~/.mux"},
	},
	{
		id:          "opencode",
		name:        "OpenCode",
		projectPath: ".opencode/skills",
		globalPath:  "$XDG_CONFIG/opencode/skills",
		detectPaths: []string{"$XDG_CONFIG/opencode"},
	},
	{
		id:          "openhands",
		name:        "OpenHands",
		projectPath: ".openhands/skills",
		globalPath:  "~/.openhands/skills",
		detectPaths: []string{"~/.openhands"},
	},
	{
		id:          "pi",
		name:        "Pi",
		projectPath: ".pi/skills",
		globalPath:  "~/.pi/agent/skills",
		detectPaths: []string{"~/.pi/agent"},
	},
	{
		id:          "qoder",
		name:        "Qoder",
		projectPath: ".qoder/skills",
		globalPath:  "~/.qoder/skills",
		detectPaths: []string{"~/.qoder"},
	},
	{
		id:          "qwen-code",
		name:        "Qwen Code",
		projectPath: ".qwen/skills",
		globalPath:  "~/.qwen/skills",
		detectPaths: []string{"~/.qwen"},
	},
	{
		id:          "roo",
		name:        "Roo Code",
		projectPath: ".roo/skills",
		globalPath:  "~/.roo/skills",
		detectPaths: []string{"~/.roo"},
	},
	{
		id:          "trae",
		name:        "Trae",
		projectPath: ".trae/skills",
		globalPath:  "~/.trae/skills",
		detectPaths: []string{"~/.trae"},
	},
	{
		id:          "windsurf",
		name:        "Windsurf",
		projectPath: ".windsurf/skills",
		globalPath:  "~/.codeium/windsurf/skills",
		detectPaths: []string{"~/.codeium/windsurf"},
	},
}
