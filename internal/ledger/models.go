package ledger

import (
	"strings"
	"time"
)

// State tracks a dataset through the pipeline.
type State string

const (
	StateNotExtracted State = "not_extracted"
	StateExtracted    State = "extracted"
	StateDiscovered   State = "discovered"
	StateProcessed    State = "processed"
	StateFailed       State = "failed"
)

var allStates = []State{
	StateNotExtracted,
	StateExtracted,
	StateDiscovered,
	StateProcessed,
	StateFailed,
}

// ParseState converts a stored value into a State.
func ParseState(raw string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range allStates {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// Key identifies one dataset: a category within a split.
type Key struct {
	Category string
	Split    string
}

// Dataset is one row of the datasets table.
type Dataset struct {
	Key
	State        State
	LabelCount   int
	RecordCount  int
	MissingAudio int
	UpdatedAt    time.Time
	LastError    string
}
