package models

// Delta is the partial state a node returns. A nil field means "keep the
// previous value"; a set field shallow-replaces it. List and map fields are
// full replacements, never append instructions, so a node hands back the
// complete new list it wants the next node to see.
type Delta struct {
	Messages         []Message
	UserInput        *string
	AIResponse       *string
	AIRecommendation *string

	TaskHistory         []Task
	CurrentTask         *Task
	SupervisorCallCount *int

	UserRequest     *string
	UserPreferences map[string]any

	HealthData   *HealthData
	ScheduleData *ScheduleData
	WorkLifeData *WorkLifeBalanceData
	FeedbackData []UserFeedback

	SystemStatus    *string
	ErrorMessages   []string
	Recommendations []string

	Context map[string]any
}

// String returns a pointer for optional Delta string fields.
func String(s string) *string { return &s }

// Int returns a pointer for optional Delta int fields.
func Int(i int) *int { return &i }

// Merge applies delta onto prev and returns the merged state. Any field the
// delta omits keeps its previous value, so merging an empty delta is the
// identity and a node that never produces some field cannot crash a
// downstream consumer.
func Merge(prev SharedState, delta Delta) SharedState {
	next := prev
	if delta.Messages != nil {
		next.Messages = delta.Messages
	}
	if delta.UserInput != nil {
		next.UserInput = *delta.UserInput
	}
	if delta.AIResponse != nil {
		next.AIResponse = *delta.AIResponse
	}
	if delta.AIRecommendation != nil {
		next.AIRecommendation = *delta.AIRecommendation
	}
	if delta.TaskHistory != nil {
		next.TaskHistory = delta.TaskHistory
	}
	if delta.CurrentTask != nil {
		next.CurrentTask = delta.CurrentTask
	}
	if delta.SupervisorCallCount != nil {
		next.SupervisorCallCount = *delta.SupervisorCallCount
	}
	if delta.UserRequest != nil {
		next.UserRequest = *delta.UserRequest
	}
	if delta.UserPreferences != nil {
		next.UserPreferences = delta.UserPreferences
	}
	if delta.HealthData != nil {
		next.HealthData = delta.HealthData
	}
	if delta.ScheduleData != nil {
		next.ScheduleData = delta.ScheduleData
	}
	if delta.WorkLifeData != nil {
		next.WorkLifeData = delta.WorkLifeData
	}
	if delta.FeedbackData != nil {
		next.FeedbackData = delta.FeedbackData
	}
	if delta.SystemStatus != nil {
		next.SystemStatus = *delta.SystemStatus
	}
	if delta.ErrorMessages != nil {
		next.ErrorMessages = delta.ErrorMessages
	}
	if delta.Recommendations != nil {
		next.Recommendations = delta.Recommendations
	}
	if delta.Context != nil {
		next.Context = delta.Context
	}
	return next
}

// ErrorDelta is the delta a node returns when it hits an unexpected failure:
// the error list grows by one and the status flips to error. Everything else
// keeps its previous value.
func ErrorDelta(prev SharedState, msg string) Delta {
	return Delta{
		ErrorMessages: prev.AppendError(msg),
		SystemStatus:  String(StatusError),
	}
}
