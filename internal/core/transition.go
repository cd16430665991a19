package core

import "time"

// TransitionEvent records one attempt to move a session between identities.
type TransitionEvent struct {
	EventID   int64          `json:"event_id"`
	Ts        time.Time      `json:"ts"`
	WindowID  string         `json:"window_id"`
	FromState WorkbenchState `json:"from_state"`
	FromID    string         `json:"from_id,omitempty"`
	ToID      string         `json:"to_id,omitempty"`
	Target    Location       `json:"target"`
	Outcome   string         `json:"outcome"`
	Error     string         `json:"error,omitempty"`
}

const (
	OutcomeEntered  = "entered"
	OutcomeDeclined = "declined"
	OutcomeFailed   = "failed"
)
