// Package apitest runs an in-memory marketplace for tests. Manifests it
// serves are signed with the key it was created with.
package apitest

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/core/manifest"
)

// Server is a fake marketplace API rooted at BaseURL().
type Server struct {
	srv *httptest.Server
	key string

	mu        sync.Mutex
	plugins   map[string]*manifest.PluginManifest
	latest    map[string]string // plugin info version overrides
	skills    map[string]*skill
	files     map[string]string
	installs  []string
	telemetry []api.TelemetryEvent
}

type skill struct {
	info     api.SkillInfo
	manifest *manifest.SkillManifest
	zip      []byte
}

// PluginSkill is one skill body served for a plugin.
type PluginSkill struct {
	Slug string
	Body string
}

// NewServer starts a server signing with key. Call Close when done.
func NewServer(key string) *Server {
	s := &Server{
		key:     key,
		plugins: make(map[string]*manifest.PluginManifest),
		latest:  make(map[string]string),
		skills:  make(map[string]*skill),
		files:   make(map[string]string),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// BaseURL is the API base, ending in /api.
func (s *Server) BaseURL() string { return s.srv.URL + "/api" }

// AddSkill publishes a single skill whose archive contains files.
func (s *Server) AddSkill(slug, version string, files map[string]string) {
	data := BuildZip(files)
	m := &manifest.SkillManifest{
		Version:     manifest.SupportedVersion,
		Skill:       manifest.SkillInfo{Slug: slug, Name: slug, Version: version},
		ZipHash:     manifest.ContentHash(data),
		DownloadURL: "/api/skills/" + slug + "/download",
		GeneratedAt: "2026-01-01T00:00:00Z",
	}
	m.Signature = s.sign(m)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[slug] = &skill{
		info:     api.SkillInfo{Slug: slug, Name: slug, Version: version, Readme: "# " + slug + "\n"},
		manifest: m,
		zip:      data,
	}
}

// SetLatestVersion changes the version the info endpoint reports for slug
// without touching its manifest.
func (s *Server) SetLatestVersion(slug, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk, ok := s.skills[slug]; ok {
		sk.info.Version = version
	}
}

// SetLatestPluginVersion changes the version the plugin info endpoint reports
// for slug without touching its manifest.
func (s *Server) SetLatestPluginVersion(slug, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[slug] = version
}

// TamperSkill changes the served skill manifest after signing.
func (s *Server) TamperSkill(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk, ok := s.skills[slug]; ok {
		sk.manifest.Skill.Version += "-tampered"
	}
}

// AddPlugin publishes a plugin whose skills are served as plain text.
func (s *Server) AddPlugin(slug, version string, skills []PluginSkill) {
	m := &manifest.PluginManifest{
		Version:     manifest.SupportedVersion,
		Plugin:      manifest.PluginInfo{Slug: slug, Name: slug, Version: version},
		GeneratedAt: "2026-01-01T00:00:00Z",
	}
	s.mu.Lock()
	for _, ps := range skills {
		path := "/files/" + slug + "/" + ps.Slug + "/SKILL.md"
		s.files[path] = ps.Body
		m.Skills = append(m.Skills, manifest.Skill{
			Slug:        ps.Slug,
			Name:        ps.Slug,
			ContentHash: manifest.ContentHash([]byte(ps.Body)),
			DownloadURL: path,
		})
	}
	s.mu.Unlock()

	m.Signature = s.sign(m)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins[slug] = m
}

// SetFile replaces the body served at a plugin skill path.
func (s *Server) SetFile(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = body
}

// Installs returns the install reports received, as "kind:slug".
func (s *Server) Installs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.installs...)
}

// Telemetry returns the telemetry events received.
func (s *Server) Telemetry() []api.TelemetryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.TelemetryEvent(nil), s.telemetry...)
}

func (s *Server) sign(v any) string {
	sig, err := manifest.Sign(v, s.key)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if body, ok := s.files[r.URL.Path]; ok {
		_, _ = w.Write([]byte(body))
		return
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "plugins":
		s.listPlugins(w)
	case len(parts) == 2 && parts[0] == "plugins":
		if m, ok := s.plugins[parts[1]]; ok {
			version := m.Plugin.Version
			if v, ok := s.latest[parts[1]]; ok {
				version = v
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": api.PluginInfo{
				Slug: m.Plugin.Slug, Name: m.Plugin.Name, Version: version,
				SkillCount: len(m.Skills), Readme: "# " + m.Plugin.Name + "\n",
			}})
			return
		}
		notFound(w, "Plugin not found")
	case len(parts) == 3 && parts[0] == "plugins" && parts[2] == "manifest":
		if m, ok := s.plugins[parts[1]]; ok {
			writeJSON(w, http.StatusOK, m)
			return
		}
		notFound(w, "Plugin not found")
	case len(parts) == 3 && parts[2] == "install" && r.Method == http.MethodPost:
		s.installs = append(s.installs, strings.TrimSuffix(parts[0], "s")+":"+parts[1])
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[0] == "skills":
		if sk, ok := s.skills[parts[1]]; ok {
			writeJSON(w, http.StatusOK, map[string]any{"data": sk.info})
			return
		}
		notFound(w, "Skill not found")
	case len(parts) == 3 && parts[0] == "skills" && parts[2] == "manifest":
		if sk, ok := s.skills[parts[1]]; ok {
			writeJSON(w, http.StatusOK, sk.manifest)
			return
		}
		notFound(w, "Skill not found")
	case len(parts) == 3 && parts[0] == "skills" && parts[2] == "download":
		if sk, ok := s.skills[parts[1]]; ok {
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write(sk.zip)
			return
		}
		notFound(w, "Skill not found")
	case len(parts) == 2 && parts[0] == "telemetry" && parts[1] == "effectiveness":
		var ev api.TelemetryEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad event"})
			return
		}
		s.telemetry = append(s.telemetry, ev)
		w.WriteHeader(http.StatusAccepted)
	default:
		notFound(w, "Not found")
	}
}

func (s *Server) listPlugins(w http.ResponseWriter) {
	slugs := make([]string, 0, len(s.plugins))
	for slug := range s.plugins {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	data := make([]api.PluginInfo, 0, len(slugs))
	for _, slug := range slugs {
		m := s.plugins[slug]
		data = append(data, api.PluginInfo{
			Slug: slug, Name: m.Plugin.Name, Version: m.Plugin.Version, SkillCount: len(m.Skills),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       data,
		"pagination": api.Pagination{Page: 1, Limit: 20, Total: len(data), TotalPages: 1},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg, "code": "NOT_FOUND"})
}

// BuildZip returns a zip archive of files, written in name order.
func BuildZip(files map[string]string) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
