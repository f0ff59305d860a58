package models

import "time"

// Message is one entry in the conversation log.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	Agent     AgentName `json:"agent,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
}

// NewAgentMessage builds an assistant message tagged with its source agent.
func NewAgentMessage(agent AgentName, content string, now time.Time) Message {
	return Message{
		Role:      "assistant",
		Content:   content,
		Timestamp: now.Format(time.RFC3339),
		Agent:     agent,
	}
}

// HealthData is the health handler's result record.
type HealthData struct {
	HealthScore       float64        `json:"health_score"`
	StressLevel       float64        `json:"stress_level"`
	SleepQuality      float64        `json:"sleep_quality"`
	ExerciseFrequency float64        `json:"exercise_frequency"`
	HabitPatterns     map[string]any `json:"habit_patterns"`
	Recommendations   []string       `json:"recommendations"`
}

// ScheduleData is the plan handler's result record.
type ScheduleData struct {
	ScheduleID      string           `json:"schedule_id"`
	Tasks           []map[string]any `json:"tasks"`
	TimeBlocks      []map[string]any `json:"time_blocks"`
	Constraints     map[string]any   `json:"constraints"`
	EfficiencyScore float64          `json:"efficiency_score"`
	Conflicts       []string         `json:"conflicts"`
}

// WorkLifeBalanceData is the worklife handler's result record.
type WorkLifeBalanceData struct {
	BalanceScore           float64  `json:"balance_score"`
	WorkHours              float64  `json:"work_hours"`
	LeisureHours           float64  `json:"leisure_hours"`
	StressIndicators       []string `json:"stress_indicators"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// UserFeedback is a feedback record collected by the data handler.
type UserFeedback struct {
	FeedbackID string  `json:"feedback_id"`
	UserID     int64   `json:"user_id"`
	Text       string  `json:"text"`
	Rating     float64 `json:"rating"`
	Category   string  `json:"category"`
	Sentiment  string  `json:"sentiment"`
	Timestamp  string  `json:"timestamp"`
}
