package core

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillstore/skillstore/internal/core/api/apitest"
)

func TestExtractSkillZip_Flat(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "pdf")
	data := apitest.BuildZip(map[string]string{
		"SKILL.md":           "---\nname: pdf\n---\n",
		"scripts/extract.py": "print('hi')\n",
	})

	if err := extractSkillZip(data, dest); err != nil {
		t.Fatalf("extractSkillZip() error: %v", err)
	}
	for _, rel := range []string{"SKILL.md", "scripts/extract.py"} {
		if _, err := os.Stat(filepath.Join(dest, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

func TestExtractSkillZip_StripsSingleRoot(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "pdf")
	data := apitest.BuildZip(map[string]string{
		"pdf-1.2.0/SKILL.md":      "---\nname: pdf\n---\n",
		"pdf-1.2.0/reference.md":  "ref",
		"pdf-1.2.0/forms/form.md": "form",
	})

	if err := extractSkillZip(data, dest); err != nil {
		t.Fatalf("extractSkillZip() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "SKILL.md")); err != nil {
		t.Errorf("root directory not stripped: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "forms", "form.md")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
}

func TestExtractSkillZip_RejectsTraversal(t *testing.T) {
	for _, name := range []string{"../evil.md", "a/../../evil.md", "/etc/evil.md"} {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			dest := filepath.Join(root, "skill")

			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, err := zw.Create(name)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = w.Write([]byte("pwned"))
			_ = zw.Close()

			err = extractSkillZip(buf.Bytes(), dest)
			if !errors.Is(err, ErrUnsafeArchivePath) {
				t.Fatalf("error = %v, want ErrUnsafeArchivePath", err)
			}
			if _, err := os.Stat(filepath.Join(root, "evil.md")); !os.IsNotExist(err) {
				t.Error("file written outside destination")
			}
		})
	}
}

func TestExtractSkillZip_NotAZip(t *testing.T) {
	if err := extractSkillZip([]byte("plain text"), t.TempDir()); err == nil {
		t.Error("expected error for non-zip data")
	}
}
