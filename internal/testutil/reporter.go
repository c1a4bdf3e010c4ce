package testutil

import (
	"strings"
	"sync"

	"cronba/internal/backup"
)

// ReportLine is one call made on a RecordingReporter.
type ReportLine struct {
	Kind   string // "title", "log", "success", "warn", "progress" or "error"
	Text   string
	Detail string
}

// RecordingReporter keeps every reporter call for later assertions.
type RecordingReporter struct {
	mu    sync.Mutex
	lines []ReportLine
}

func NewRecordingReporter() *RecordingReporter {
	return &RecordingReporter{}
}

func (r *RecordingReporter) add(kind, text, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, ReportLine{Kind: kind, Text: text, Detail: detail})
}

func (r *RecordingReporter) Title(text, detail string)    { r.add("title", text, detail) }
func (r *RecordingReporter) Log(text, detail string)      { r.add("log", text, detail) }
func (r *RecordingReporter) Success(text, detail string)  { r.add("success", text, detail) }
func (r *RecordingReporter) Warn(text, detail string)     { r.add("warn", text, detail) }
func (r *RecordingReporter) Progress(text, detail string) { r.add("progress", text, detail) }
func (r *RecordingReporter) Error(err error)              { r.add("error", err.Error(), "") }

// Lines returns a copy of the recorded calls.
func (r *RecordingReporter) Lines() []ReportLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReportLine{}, r.lines...)
}

// Count returns how many calls of kind were recorded.
func (r *RecordingReporter) Count(kind string) int {
	n := 0
	for _, l := range r.Lines() {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// Contains reports whether any call of kind has text containing substr.
func (r *RecordingReporter) Contains(kind, substr string) bool {
	for _, l := range r.Lines() {
		if l.Kind == kind && strings.Contains(l.Text+" "+l.Detail, substr) {
			return true
		}
	}
	return false
}

var _ backup.Reporter = (*RecordingReporter)(nil)
