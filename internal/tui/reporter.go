// Package tui renders progress and status for the skillstore CLI. Output is
// interactive (spinner, progress bar, picker) on a terminal and plain lines
// otherwise.
package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillstore/skillstore/internal/core/download"
)

// Reporter shows progress for batch operations and status messages. It
// satisfies download.Progress.
type Reporter interface {
	download.Progress
	Start(title string, total int)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
	Info(msg string)
	Box(title string, lines []string)
}

// NewReporter returns an interactive reporter when interactive is true,
// otherwise one that writes plain lines to w.
func NewReporter(w io.Writer, interactive bool) Reporter {
	plain := &plainReporter{w: w}
	if !interactive {
		return plain
	}
	return &interactiveReporter{plainReporter: plain}
}

// plainReporter writes one line per event.
type plainReporter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  int
}

func (r *plainReporter) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, s)
}

func (r *plainReporter) Start(title string, total int) {
	r.mu.Lock()
	r.total, r.done = total, 0
	r.mu.Unlock()
	r.println(fmt.Sprintf("%s (%d)", title, total))
}

func (r *plainReporter) Advance(res download.Result) {
	r.mu.Lock()
	r.done++
	prefix := fmt.Sprintf("[%d/%d] ", r.done, r.total)
	r.mu.Unlock()
	r.println(prefix + RenderResult(res))
}

func (r *plainReporter) Complete(s download.Summary) { r.println(RenderSummary(s)) }

func (r *plainReporter) Success(msg string) { r.println(successStyle.Render(glyphSuccess) + " " + msg) }
func (r *plainReporter) Warn(msg string)    { r.println(warningStyle.Render(glyphWarning) + " " + msg) }
func (r *plainReporter) Error(msg string)   { r.println(errorStyle.Render(glyphError) + " " + msg) }
func (r *plainReporter) Info(msg string)    { r.println(mutedStyle.Render(glyphInfo) + " " + msg) }

func (r *plainReporter) Box(title string, lines []string) { r.println(RenderBox(title, lines)) }

// interactiveReporter runs a bubbletea program between Start and Complete.
// Status messages outside that window go straight to the writer.
type interactiveReporter struct {
	*plainReporter
	prog *tea.Program
	done chan struct{}
}

func (r *interactiveReporter) Start(title string, total int) {
	r.prog = tea.NewProgram(newProgressModel(title, total),
		tea.WithOutput(r.w),
		tea.WithInput(nil),
	)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		_, _ = r.prog.Run()
	}()
}

func (r *interactiveReporter) Advance(res download.Result) {
	if r.prog == nil {
		r.plainReporter.Advance(res)
		return
	}
	r.prog.Send(advanceMsg{result: res})
}

func (r *interactiveReporter) Complete(s download.Summary) {
	if r.prog != nil {
		r.prog.Send(completeMsg{summary: s})
		<-r.done
		r.prog = nil
	}
	r.plainReporter.Complete(s)
}
