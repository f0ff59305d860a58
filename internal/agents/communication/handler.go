package communication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-plandy/internal/clock"
	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
	"go-plandy/pkg/data"
	"go-plandy/pkg/models"
	"go-plandy/pkg/prompts"
)

// Lister is the slice of the schedule store the communication handler reads
// from when the user asks about their schedule.
type Lister interface {
	List(ctx context.Context, userID int64, date *time.Time) ([]schedule.Schedule, error)
}

// Intent tags for the reply fallback paths.
const (
	IntentScheduleLookup = "schedule_lookup"
	IntentGreeting       = "greeting"
	IntentTime           = "time"
	IntentGeneral        = "general"
)

type Handler struct {
	factory *llm.Factory
	chain   chains.Chain
	store   Lister
	clock   *clock.Service
	cache   *HistoryCache
	nowFn   func() time.Time
}

func NewHandler(f *llm.Factory, store Lister, cl *clock.Service) *Handler {
	return &Handler{
		factory: f,
		chain: f.Chain(prompts.CommunicationReply, []string{
			"UserInput", "CurrentTime", "Conversation", "ScheduleInfo",
		}),
		store: store,
		clock: cl,
		cache: NewHistoryCache(),
		nowFn: time.Now,
	}
}

func (h *Handler) WithNowFunc(fn func() time.Time) *Handler {
	return &Handler{factory: h.factory, chain: h.chain, store: h.store, clock: h.clock, cache: h.cache, nowFn: fn}
}

// Cache exposes the per-user history, for tests and the websocket path.
func (h *Handler) Cache() *HistoryCache { return h.cache }

// DetectIntent classifies the user input by keyword.
func DetectIntent(input string) string {
	lower := strings.ToLower(input)
	switch {
	case containsAny(input, "일정", "스케줄", "약속") || containsAny(lower, "schedule", "calendar", "appointment"):
		return IntentScheduleLookup
	case containsAny(input, "안녕", "반가") || containsAny(lower, "hello", "hi ", "hey"):
		return IntentGreeting
	case containsAny(input, "몇 시", "시간") || containsAny(lower, "what time", "current time"):
		return IntentTime
	}
	return IntentGeneral
}

// Reply answers the user's input. The reply is grounded in the current time
// for the user's locale, their cached conversation, and their schedules when
// the intent calls for it. onChunk, when non-nil, receives streamed tokens.
// Model failures degrade to a deterministic reply with the error appended.
func (h *Handler) Reply(ctx context.Context, userID int64, userInput string, onChunk func(chunk string)) string {
	intent := DetectIntent(userInput)
	language := data.DetectLanguage(userInput)

	now, err := h.clock.Now(data.TimezoneFor(language))
	if err != nil {
		log.Warn().Err(err).Msg("timezone lookup failed, using default")
		now, _ = h.clock.Now("")
	}

	scheduleInfo := "none on record"
	if intent == IntentScheduleLookup {
		scheduleInfo = h.scheduleInfo(ctx, userID)
	}

	conversation := formatConversation(h.cache.History(userID), 5)

	reply, err := h.factory.CallStreaming(ctx, h.chain, map[string]any{
		"UserInput":    userInput,
		"CurrentTime":  now.ReadableTime,
		"Conversation": conversation,
		"ScheduleInfo": scheduleInfo,
	}, onChunk)
	if err != nil {
		reply = fallbackReply(intent, now, scheduleInfo, err)
		if onChunk != nil {
			onChunk(reply)
		}
	}

	userMsg := models.Message{Role: "user", Content: userInput, Timestamp: h.nowFn().Format(time.RFC3339), UserID: userID}
	h.cache.Append(userID, userMsg, models.NewAgentMessage(models.AgentCommunication, reply, h.nowFn()))

	return reply
}

// scheduleInfo renders today's schedules as prompt-ready lines.
func (h *Handler) scheduleInfo(ctx context.Context, userID int64) string {
	today := h.nowFn()
	schedules, err := h.store.List(ctx, userID, &today)
	if err != nil {
		log.Warn().Err(err).Msg("schedule lookup failed")
		return "schedule lookup unavailable"
	}
	if len(schedules) == 0 {
		return "no schedules today"
	}
	lines := make([]string, 0, len(schedules))
	for _, sc := range schedules {
		lines = append(lines, fmt.Sprintf("- %s (%s - %s, %d min)",
			sc.Title, sc.StartTime.Format("15:04"), sc.EndTime.Format("15:04"), sc.DurationMinutes))
	}
	return strings.Join(lines, "\n")
}

func fallbackReply(intent string, now clock.Now, scheduleInfo string, err error) string {
	var reply string
	switch intent {
	case IntentScheduleLookup:
		reply = fmt.Sprintf("Here is what I have on record for today:\n%s", scheduleInfo)
	case IntentGreeting:
		reply = "Hello! I can help with your schedule, health, and work-life balance. What do you need?"
	case IntentTime:
		reply = fmt.Sprintf("It is currently %s (%s).", now.ReadableTime, now.Timezone)
	default:
		reply = "I can help you manage your day. Ask me about your schedule, health, or balance."
	}
	return fmt.Sprintf("%s (API error: %v)", reply, err)
}

func formatConversation(msgs []models.Message, n int) string {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	if len(msgs) == 0 {
		return "(no prior conversation)"
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
