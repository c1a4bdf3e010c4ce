package backup

// Reporter receives the human-readable progress trail of a pipeline run.
// Every call is fire-and-forget.
type Reporter interface {
	Title(text, detail string)
	Log(text, detail string)
	Success(text, detail string)
	Warn(text, detail string)
	Progress(text, detail string)
	Error(err error)
}

// NopReporter is a Reporter that discards all output. Use in tests.
type NopReporter struct{}

func NewNopReporter() *NopReporter { return &NopReporter{} }

func (*NopReporter) Title(string, string)    {}
func (*NopReporter) Log(string, string)      {}
func (*NopReporter) Success(string, string)  {}
func (*NopReporter) Warn(string, string)     {}
func (*NopReporter) Progress(string, string) {}
func (*NopReporter) Error(error)             {}
