package history

import "time"

// Status records how an invocation ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one ledger row.
type Entry struct {
	Seq        int64
	ID         string
	Node       string
	StartedAt  time.Time
	Duration   time.Duration
	Argv       []string
	InputShape []int
	Status     Status
	ErrorKind  string
	ExitCode   int
	Message    string
}
