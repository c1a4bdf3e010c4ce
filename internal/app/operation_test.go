package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewRun(t *testing.T) {
	started := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	r := NewRun("run-1", "/src", "/dst", `\.txt$`, started)

	if r.ID != "run-1" {
		t.Errorf("ID = %q, want %q", r.ID, "run-1")
	}
	if r.From != "/src" || r.To != "/dst" || r.Pattern != `\.txt$` {
		t.Errorf("parameters = %q %q %q", r.From, r.To, r.Pattern)
	}
	if r.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", r.Status, StatusRunning)
	}
	if r.Done() {
		t.Error("Done() = true, want false")
	}
	if r.Duration() != 0 {
		t.Errorf("Duration() = %v, want 0", r.Duration())
	}
}

func TestRun_Finish(t *testing.T) {
	started := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{name: "success", err: nil, wantStatus: StatusSuccess},
		{name: "failure", err: errors.New("boom"), wantStatus: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRun("run-1", "/src", "/dst", ".", started)
			r.Finish(tt.err, started.Add(1500*time.Millisecond))

			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if !r.Done() {
				t.Error("Done() = false, want true")
			}
			if r.Duration() != 1500*time.Millisecond {
				t.Errorf("Duration() = %v, want %v", r.Duration(), 1500*time.Millisecond)
			}
		})
	}
}
