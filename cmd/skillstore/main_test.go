package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/skillstore/skillstore/cmd/skillstore/cmd"
	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/core/api/apitest"
)

const testKey = "testscript-signing-key"

type serverKey struct{}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"skillstore": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			srv := newMarketplace()
			e.Defer(srv.Close)
			e.Values[serverKey{}] = srv

			// HOME is WORK so ~/.agents and agent dirs land in the temp dir.
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"XDG_CONFIG_HOME="+filepath.Join(e.WorkDir, ".config"),
				"SKILLSTORE_API_URL="+srv.BaseURL(),
				"SKILLSTORE_VERIFY_KEY="+testKey,
			)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// is-symlink asserts that a path is (or is not) a symlink.
			// Usage: [!] is-symlink <path>
			"is-symlink": cmdIsSymlink,

			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// server-reported asserts that the marketplace received an
			// install report. Usage: [!] server-reported <plugin|skill>:<slug>
			"server-reported": cmdServerReported,

			// server-telemetry asserts that a telemetry event was received.
			// Usage: [!] server-telemetry <skill> <event>
			"server-telemetry": cmdServerTelemetry,

			// server-set-latest changes the version the marketplace reports.
			// Usage: server-set-latest <skill> <version>
			"server-set-latest": cmdServerSetLatest,

			// server-set-plugin-latest changes the version reported for a plugin.
			// Usage: server-set-plugin-latest <plugin> <version>
			"server-set-plugin-latest": cmdServerSetPluginLatest,

			// server-tamper alters a skill manifest after it was signed.
			// Usage: server-tamper <skill>
			"server-tamper": cmdServerTamper,

			// server-break-file serves a plugin skill body that no longer
			// matches its content hash. Usage: server-break-file <plugin> <skill>
			"server-break-file": cmdServerBreakFile,
		},
	})
}

// newMarketplace starts a fake marketplace with one standalone skill and one
// two-skill plugin.
func newMarketplace() *apitest.Server {
	srv := apitest.NewServer(testKey)
	srv.AddSkill("code-review", "1.0.0", map[string]string{
		"SKILL.md": "---\nname: code-review\ndescription: Review pull requests\nmetadata:\n  author: skillstore\n  version: 1.0.0\n---\n\n# Code review\n",
		"scripts/run.sh": "#!/bin/sh\necho review\n",
	})
	srv.AddPlugin("web-toolkit", "2.0.0", []apitest.PluginSkill{
		{Slug: "html-lint", Body: "---\nname: html-lint\ndescription: Lint HTML\n---\n"},
		{Slug: "css-lint", Body: "---\nname: css-lint\ndescription: Lint CSS\n---\n"},
	})
	return srv
}

func server(ts *testscript.TestScript) *apitest.Server {
	return ts.Value(serverKey{}).(*apitest.Server)
}

// cmdIsSymlink checks if a path is a symlink.
func cmdIsSymlink(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: is-symlink <path>")
	}
	path := ts.MkAbs(args[0])
	fi, err := os.Lstat(path)
	isSymlink := err == nil && fi.Mode()&os.ModeSymlink != 0

	if neg {
		if isSymlink {
			ts.Fatalf("%s is a symlink (expected not to be)", args[0])
		}
		return
	}
	if !isSymlink {
		if err != nil {
			ts.Fatalf("%s: %v", args[0], err)
		}
		ts.Fatalf("%s is not a symlink (mode: %s)", args[0], fi.Mode())
	}
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), args[1])
	if neg && contains {
		ts.Fatalf("file %s contains %q (expected not to)", args[0], args[1])
	}
	if !neg && !contains {
		ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], args[1], data)
	}
}

func cmdServerReported(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: server-reported <plugin|skill>:<slug>")
	}
	installs := server(ts).Installs()
	found := slices.Contains(installs, args[0])
	if neg && found {
		ts.Fatalf("install report %q received (expected none)", args[0])
	}
	if !neg && !found {
		ts.Fatalf("install report %q not received; got %v", args[0], installs)
	}
}

func cmdServerTelemetry(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: server-telemetry <skill> <event>")
	}
	events := server(ts).Telemetry()
	found := slices.ContainsFunc(events, func(ev api.TelemetryEvent) bool {
		return ev.SkillSlug == args[0] && ev.EventType == args[1]
	})
	if neg && found {
		ts.Fatalf("telemetry %s/%s received (expected none)", args[0], args[1])
	}
	if !neg && !found {
		ts.Fatalf("telemetry %s/%s not received; got %+v", args[0], args[1], events)
	}
}

func cmdServerSetLatest(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 2 {
		ts.Fatalf("usage: server-set-latest <skill> <version>")
	}
	server(ts).SetLatestVersion(args[0], args[1])
}

func cmdServerSetPluginLatest(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 2 {
		ts.Fatalf("usage: server-set-plugin-latest <plugin> <version>")
	}
	server(ts).SetLatestPluginVersion(args[0], args[1])
}

func cmdServerTamper(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 1 {
		ts.Fatalf("usage: server-tamper <skill>")
	}
	server(ts).TamperSkill(args[0])
}

func cmdServerBreakFile(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 2 {
		ts.Fatalf("usage: server-break-file <plugin> <skill>")
	}
	server(ts).SetFile("/files/"+args[0]+"/"+args[1]+"/SKILL.md", "tampered body\n")
}
