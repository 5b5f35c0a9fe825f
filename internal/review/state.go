package review

import (
	"errors"
	"fmt"
)

// ErrUnclassifiable is reported for issues carrying none of the review labels
var ErrUnclassifiable = errors.New("no recognized review label")

// State is the review state derived from an issue's labels
type State string

const (
	StateQueued     State = "queued"
	StateInProgress State = "in-progress"
	StateReviewed   State = "reviewed"
	StateStale      State = "stale"
)

// labelStates maps the controlled label vocabulary to states. Matching is exact.
var labelStates = map[string]State{
	"review:queued":      StateQueued,
	"review:in-progress": StateInProgress,
	"review:in progress": StateInProgress,
	"reviewed":           StateReviewed,
	"review:accepted":    StateReviewed,
	"review:stale":       StateStale,
}

// Rank orders states for label tie-breaks: a higher rank wins.
// Unknown states rank zero.
func (s State) Rank() int {
	switch s {
	case StateStale:
		return 4
	case StateReviewed:
		return 3
	case StateInProgress:
		return 2
	case StateQueued:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the four review states
func (s State) Valid() bool {
	return s.Rank() > 0
}

func (s State) String() string {
	return string(s)
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid review state %q", string(s))
	}
	return []byte(s), nil
}

func (s *State) UnmarshalText(text []byte) error {
	st := State(text)
	if !st.Valid() {
		return fmt.Errorf("invalid review state %q", string(text))
	}
	*s = st
	return nil
}

// StateForLabel returns the state a single label stands for
func StateForLabel(label string) (State, bool) {
	s, ok := labelStates[label]
	return s, ok
}

// Classify derives one state from an issue's label set.
// When several review labels are present the highest ranked state wins.
func Classify(labels []string) (State, error) {
	var best State
	for _, label := range labels {
		s, ok := labelStates[label]
		if !ok {
			continue
		}
		if s.Rank() > best.Rank() {
			best = s
		}
	}
	if !best.Valid() {
		return "", ErrUnclassifiable
	}
	return best, nil
}
