package models

import "time"

// Task is the unit of routed work. The supervisor creates one per routing
// decision and the handler it names closes it.
type Task struct {
	Agent       AgentName `json:"agent"`
	Done        bool      `json:"done"`
	Description string    `json:"description"`
	DoneAt      string    `json:"done_at"`
	Priority    int       `json:"priority"`
	UserID      int64     `json:"user_id"`
}

// Close marks the task done with a completion timestamp.
func (t *Task) Close(now time.Time) {
	t.Done = true
	t.DoneAt = now.Format("2006-01-02 15:04:05")
}

// CloseTail returns a copy of history with its last entry marked done. An
// already-closed tail is left untouched so a finished task is never rewritten.
func CloseTail(history []Task, now time.Time) []Task {
	if len(history) == 0 {
		return history
	}
	out := make([]Task, len(history))
	copy(out, history)
	if !out[len(out)-1].Done {
		out[len(out)-1].Close(now)
	}
	return out
}
