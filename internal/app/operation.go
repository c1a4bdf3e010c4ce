package app

import "time"

// Run status values.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run records one backup invocation: its parameters, what it produced and
// how it ended. It lives only for the process; nothing is persisted.
type Run struct {
	ID          string
	From        string
	To          string
	Pattern     string
	Status      string
	ArchiveName string
	ArchiveSize int64
	Files       int
	Started     time.Time
	Finished    time.Time
}

// NewRun creates a running Run started at the given time.
func NewRun(id, from, to, pattern string, started time.Time) *Run {
	return &Run{
		ID:      id,
		From:    from,
		To:      to,
		Pattern: pattern,
		Status:  StatusRunning,
		Started: started,
	}
}

// Finish marks the run as ended with err's outcome.
func (r *Run) Finish(err error, at time.Time) {
	r.Finished = at
	if err != nil {
		r.Status = StatusError
		return
	}
	r.Status = StatusSuccess
}

// Done returns true once Finish has been called.
func (r *Run) Done() bool {
	return r.Status != StatusRunning
}

// Duration returns how long the run took, or 0 while it is running.
func (r *Run) Duration() time.Duration {
	if !r.Done() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
