package messages

import (
	"time"

	"github.com/google/uuid"

	"go-plandy/pkg/models"
)

// StartRun tells a run actor to execute the pipeline for one user request.
type StartRun struct {
	RunID     uuid.UUID
	Message   string
	UserID    int64
	SessionID string
}

// GetStatus asks a run actor for a progress snapshot.
type GetStatus struct{}

// NodeProgress is one completed node during a run.
type NodeProgress struct {
	Node       models.AgentName `json:"node"`
	Status     string           `json:"status"`
	Message    string           `json:"message"`
	FinishedAt time.Time        `json:"finished_at"`
}

// RunStatus is a run actor's reply to GetStatus.
type RunStatus struct {
	RunID        uuid.UUID      `json:"run_id"`
	State        string         `json:"state"`
	Progress     []NodeProgress `json:"progress"`
	AIResponse   string         `json:"ai_response"`
	SystemStatus string         `json:"system_status"`
	Errors       []string       `json:"errors,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
}

// Run actor lifecycle states.
const (
	RunPending  = "pending"
	RunRunning  = "running"
	RunFinished = "finished"
	RunFailed   = "failed"
)
