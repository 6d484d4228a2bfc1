package pipeline

import "log/slog"

type FailureKind string

const (
	FailureDownload   FailureKind = "download-error"
	FailureUpload     FailureKind = "upload-error"
	FailureUnexpected FailureKind = "unexpected-error"
)

// Failure is one per-item error recorded during a run. Failures never
// abort the batch.
type Failure struct {
	Filename string
	Kind     FailureKind
	Err      error
}

type failureList struct {
	failures []Failure
}

// attempt runs op and folds any error into the list under kind,
// reporting whether op succeeded. This is the single catch-log-continue
// boundary around per-item network work.
func (l *failureList) attempt(filename string, kind FailureKind, op func() error) bool {
	err := op()
	if err == nil {
		return true
	}
	l.record(filename, kind, err)
	return false
}

func (l *failureList) record(filename string, kind FailureKind, err error) {
	slog.Error("recording disposition failed", "file", filename, "kind", string(kind), "error", err)
	l.failures = append(l.failures, Failure{Filename: filename, Kind: kind, Err: err})
}

func (l *failureList) summarize() {
	if len(l.failures) == 0 {
		return
	}
	slog.Warn("run finished with failures", "count", len(l.failures))
	for _, f := range l.failures {
		slog.Warn("failed item", "file", f.Filename, "kind", string(f.Kind), "error", f.Err)
	}
}
