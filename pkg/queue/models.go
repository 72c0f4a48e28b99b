// Package queue defines the jobs exchanged between the API and the
// turn worker over Redis.
package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/game"
)

// JobType identifies the kind of work in the queue.
type JobType string

const (
	// JobTypeTurn resolves a full narrative turn for a session.
	JobTypeTurn JobType = "turn"

	// JobTypeSuggestion produces a GM-assist nudge for the next turn.
	JobTypeSuggestion JobType = "suggestion"
)

// TurnJob is one unit of asynchronous work for a session. Turn jobs
// carry the party's declared actions; suggestion jobs carry only the
// session reference.
type TurnJob struct {
	JobID     string    `json:"job_id"`
	Type      JobType   `json:"type"`
	SessionID uuid.UUID `json:"session_id"`

	Actions []game.TurnAction `json:"actions,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewTurnJob creates a turn-resolution job for a session.
func NewTurnJob(sessionID uuid.UUID, actions []game.TurnAction) *TurnJob {
	return &TurnJob{
		JobID:      uuid.NewString(),
		Type:       JobTypeTurn,
		SessionID:  sessionID,
		Actions:    actions,
		EnqueuedAt: time.Now(),
	}
}

// NewSuggestionJob creates a GM-assist job for a session.
func NewSuggestionJob(sessionID uuid.UUID) *TurnJob {
	return &TurnJob{
		JobID:      uuid.NewString(),
		Type:       JobTypeSuggestion,
		SessionID:  sessionID,
		EnqueuedAt: time.Now(),
	}
}

// ToJSON serializes the job for Redis.
func (j *TurnJob) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// FromJSON parses a job from its Redis payload.
func FromJSON(data []byte) (*TurnJob, error) {
	var job TurnJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
