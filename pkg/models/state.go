package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedState is the single record threaded through one pipeline run. Nodes
// never mutate it in place; they return a Delta that the engine merges.
type SharedState struct {
	Messages         []Message `json:"messages"`
	UserInput        string    `json:"user_input"`
	AIResponse       string    `json:"ai_response"`
	AIRecommendation string    `json:"ai_recommendation"`

	TaskHistory         []Task `json:"task_history"`
	CurrentTask         *Task  `json:"current_task"`
	SupervisorCallCount int    `json:"supervisor_call_count"`

	UserID          int64          `json:"user_id"`
	UserRequest     string         `json:"user_request"`
	UserPreferences map[string]any `json:"user_preferences"`

	HealthData   *HealthData          `json:"health_data"`
	ScheduleData *ScheduleData        `json:"schedule_data"`
	WorkLifeData *WorkLifeBalanceData `json:"worklife_data"`
	FeedbackData []UserFeedback       `json:"feedback_data"`

	SystemStatus    string   `json:"system_status"`
	ErrorMessages   []string `json:"error_messages"`
	Recommendations []string `json:"recommendations"`

	Context   map[string]any `json:"context"`
	SessionID string         `json:"session_id"`
	Timestamp string         `json:"timestamp"`
}

// NewInitialState builds the fresh state for one user request.
func NewInitialState(userInput string, userID int64, sessionID string) SharedState {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	return SharedState{
		Messages:        []Message{},
		UserInput:       userInput,
		TaskHistory:     []Task{},
		UserID:          userID,
		UserRequest:     userInput,
		UserPreferences: map[string]any{},
		FeedbackData:    []UserFeedback{},
		SystemStatus:    StatusInitialized,
		ErrorMessages:   []string{},
		Recommendations: []string{},
		Context:         map[string]any{},
		SessionID:       sessionID,
		Timestamp:       time.Now().Format(time.RFC3339),
	}
}

// LastAgent returns the agent of the most recent task, or "none".
func (s SharedState) LastAgent() string {
	if len(s.TaskHistory) == 0 {
		return "none"
	}
	return string(s.TaskHistory[len(s.TaskHistory)-1].Agent)
}

// RecentMessages returns up to n of the latest conversation entries.
func (s SharedState) RecentMessages(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// AppendError returns a new error list with msg added, leaving the previous
// list intact for earlier state snapshots.
func (s SharedState) AppendError(msg string) []string {
	out := make([]string, 0, len(s.ErrorMessages)+1)
	out = append(out, s.ErrorMessages...)
	return append(out, msg)
}

// AppendMessage returns a new message log with m added.
func (s SharedState) AppendMessage(m Message) []Message {
	out := make([]Message, 0, len(s.Messages)+1)
	out = append(out, s.Messages...)
	return append(out, m)
}
