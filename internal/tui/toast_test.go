package tui

import (
	"strings"
	"testing"

	"github.com/skillstore/skillstore/internal/core/download"
)

func TestNewToastModel(t *testing.T) {
	m := newToastModel()
	if m.active {
		t.Error("new toast should not be active")
	}
	if m.view() != "" {
		t.Errorf("view() = %q, want empty", m.view())
	}
}

func TestToastShow(t *testing.T) {
	m := newToastModel()
	m, cmd := m.show("✓ pdf", toastSuccess)

	if !m.active {
		t.Error("toast should be active after show")
	}
	if m.message != "✓ pdf" {
		t.Errorf("message = %q, want %q", m.message, "✓ pdf")
	}
	if m.nextID != 1 {
		t.Errorf("nextID = %d, want 1", m.nextID)
	}
	if cmd == nil {
		t.Error("show should return a cmd for the auto-dismiss timer")
	}
}

func TestToastShowResult(t *testing.T) {
	tests := []struct {
		result   download.Result
		wantKind toastType
		wantText string
	}{
		{download.Result{Slug: "pdf", Status: download.StatusSuccess}, toastSuccess, "pdf"},
		{download.Result{Slug: "xlsx", Status: download.StatusSkipped}, toastWarning, "xlsx (skipped)"},
		{download.Result{Slug: "docx", Status: download.StatusFailed, Error: "boom"}, toastError, "docx: boom"},
	}
	for _, tt := range tests {
		m, _ := newToastModel().showResult(tt.result)
		if m.kind != tt.wantKind {
			t.Errorf("%s: kind = %d, want %d", tt.result.Slug, m.kind, tt.wantKind)
		}
		if !strings.Contains(m.view(), tt.wantText) {
			t.Errorf("%s: view() = %q, want it to contain %q", tt.result.Slug, m.view(), tt.wantText)
		}
	}
}

func TestToastUpdate_DismissMatchingID(t *testing.T) {
	m, _ := newToastModel().show("hello", toastSuccess)
	m = m.update(toastDismissMsg{id: m.id})
	if m.active {
		t.Error("toast should be dismissed when ID matches")
	}
}

func TestToastUpdate_DismissStaleID(t *testing.T) {
	m, _ := newToastModel().show("first", toastSuccess)
	staleID := m.id
	m, _ = m.show("second", toastError)

	m = m.update(toastDismissMsg{id: staleID})
	if !m.active {
		t.Error("toast should still be active when dismiss ID is stale")
	}
	if m.message != "second" {
		t.Errorf("message = %q, want %q", m.message, "second")
	}
}
