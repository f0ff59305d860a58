package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-plandy/internal/llm"
	"go-plandy/pkg/data"
	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
	"go-plandy/pkg/prompts"
)

// MaxCalls is the routing budget: once the supervisor has been invoked more
// than this many times for one request, it must hand the conversation to the
// communication agent so a run can never loop forever.
const MaxCalls = 3

// Decision is a resolved routing choice.
type Decision struct {
	Agent       models.AgentName `json:"agent"`
	Description string           `json:"description"`
	Priority    int              `json:"priority"`
}

// budgetDecision is the forced terminal route once MaxCalls is exceeded.
var budgetDecision = Decision{
	Agent:       models.AgentCommunication,
	Description: "Supervisor call budget exceeded; report progress so far to the user.",
	Priority:    1,
}

// defaultDecision is the fallback when the model cannot be asked or its
// answer cannot be parsed. The supervisor never fails to produce a task.
var defaultDecision = Decision{
	Agent:       models.AgentCommunication,
	Description: "handle the user's request",
	Priority:    5,
}

// Decider chooses the next agent for a request that is still within budget.
type Decider interface {
	Decide(ctx context.Context, st models.SharedState) Decision
}

// Node is the supervisor graph node: it applies the budget ceiling, consults
// its decider, and emits the new task plus routing bookkeeping.
type Node struct {
	decider Decider
	nowFn   func() time.Time
}

func NewNode(decider Decider) *Node {
	return &Node{decider: decider, nowFn: time.Now}
}

// WithNowFunc overrides the timestamp source, for tests.
func (n *Node) WithNowFunc(fn func() time.Time) *Node {
	return &Node{decider: n.decider, nowFn: fn}
}

// Run decides the next task and returns the routing delta: appended task
// history, the new current task, the incremented call count, one routing
// message, and the task_assigned status.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentSupervisor)).Logger()

	decision := n.decide(ctx, st)
	task := models.Task{
		Agent:       decision.Agent,
		Description: decision.Description,
		Priority:    decision.Priority,
		UserID:      st.UserID,
	}

	history := make([]models.Task, 0, len(st.TaskHistory)+1)
	history = append(history, st.TaskHistory...)
	history = append(history, task)

	msg := models.NewAgentMessage(models.AgentSupervisor,
		fmt.Sprintf("[Supervisor] next task: %s - %s", task.Agent, task.Description), n.nowFn())

	l.Info().Str(logger.AgentNameField, string(task.Agent)).Msg("routed next task")

	return models.Delta{
		Messages:            st.AppendMessage(msg),
		TaskHistory:         history,
		CurrentTask:         &task,
		SupervisorCallCount: models.Int(st.SupervisorCallCount + 1),
		SystemStatus:        models.String(models.StatusTaskAssigned),
	}
}

func (n *Node) decide(ctx context.Context, st models.SharedState) Decision {
	if st.SupervisorCallCount > MaxCalls {
		log.Warn().Int("call_count", st.SupervisorCallCount).Msg("routing budget exceeded, forcing communication agent")
		return budgetDecision
	}
	return n.decider.Decide(ctx, st)
}

// LLMDecider asks the model for a routing decision using a structured JSON
// contract, with the legacy line-scan parser and the fixed default triple as
// successive fallbacks.
type LLMDecider struct {
	factory *llm.Factory
	chain   chains.Chain
}

func NewLLMDecider(f *llm.Factory) *LLMDecider {
	return &LLMDecider{
		factory: f,
		chain: f.Chain(prompts.SupervisorRoute, []string{
			"UserInput", "UserRequest", "Conversation", "CallCount",
			"LastAgent", "HealthData", "ScheduleData", "WorkLifeData",
		}),
	}
}

func (d *LLMDecider) Decide(ctx context.Context, st models.SharedState) Decision {
	answer, err := d.factory.Call(ctx, d.chain, map[string]any{
		"UserInput":    st.UserInput,
		"UserRequest":  st.UserRequest,
		"Conversation": formatConversation(st.RecentMessages(5)),
		"CallCount":    st.SupervisorCallCount,
		"LastAgent":    st.LastAgent(),
		"HealthData":   slotSummary(st.HealthData),
		"ScheduleData": slotSummary(st.ScheduleData),
		"WorkLifeData": slotSummary(st.WorkLifeData),
	})
	if err != nil {
		log.Warn().Err(err).Msg("routing call failed, using default decision")
		return defaultDecision
	}
	return ParseDecision(answer)
}

// ParseDecision resolves a model answer into a Decision. The JSON contract is
// primary; the "key: value" line scan is the legacy fallback; any field still
// missing takes its default.
func ParseDecision(answer string) Decision {
	decision := defaultDecision

	if block, err := data.ExtractJSON(answer); err == nil {
		var parsed struct {
			Agent       string `json:"agent"`
			Description string `json:"description"`
			Priority    int    `json:"priority"`
		}
		if err := json.Unmarshal([]byte(block), &parsed); err == nil {
			applyFields(&decision, parsed.Agent, parsed.Description, parsed.Priority, parsed.Priority != 0)
			return decision
		}
	}

	fields := data.ParseRoutingLines(answer)
	applyFields(&decision, fields.Agent, fields.Description, fields.Priority, fields.HasPriority)
	return decision
}

func applyFields(d *Decision, agent, description string, priority int, hasPriority bool) {
	if name := models.AgentName(strings.TrimSpace(agent)); name.Valid() {
		d.Agent = name
	}
	if description != "" {
		d.Description = description
	}
	if hasPriority && priority >= 1 && priority <= 10 {
		d.Priority = priority
	}
}

func formatConversation(msgs []models.Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		if m.Role == "user" {
			fmt.Fprintf(&sb, "user: %s\n", m.Content)
		} else {
			fmt.Fprintf(&sb, "assistant: %s\n", m.Content)
		}
	}
	return sb.String()
}

func slotSummary(v any) string {
	switch slot := v.(type) {
	case *models.HealthData:
		if slot == nil {
			return "none"
		}
		return fmt.Sprintf("health_score=%.1f stress=%.1f", slot.HealthScore, slot.StressLevel)
	case *models.ScheduleData:
		if slot == nil {
			return "none"
		}
		return fmt.Sprintf("schedule_id=%s blocks=%d", slot.ScheduleID, len(slot.TimeBlocks))
	case *models.WorkLifeBalanceData:
		if slot == nil {
			return "none"
		}
		return fmt.Sprintf("balance=%.0f work=%.1fh personal=%.1fh", slot.BalanceScore, slot.WorkHours, slot.LeisureHours)
	}
	return "none"
}

// KeywordDecider is the deterministic strategy used when no model backend is
// configured. Rules follow the same routing hints the model is given.
type KeywordDecider struct{}

func (KeywordDecider) Decide(_ context.Context, st models.SharedState) Decision {
	input := strings.ToLower(st.UserInput)

	match := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(input, k) {
				return true
			}
		}
		return false
	}

	switch {
	case match("등록", "추가", "register", "add a schedule", "book "):
		return Decision{Agent: models.AgentPlan, Description: "create and register the requested schedule", Priority: 8}
	case match("건강", "스트레스", "피로", "health", "stress", "sleep"):
		return Decision{Agent: models.AgentHealth, Description: "analyze the user's health status", Priority: 7}
	case match("워라벨", "균형", "work-life", "balance"):
		return Decision{Agent: models.AgentWorkLife, Description: "analyze the user's work-life balance", Priority: 7}
	case match("분석", "패턴", "데이터", "productivity", "pattern", "insight"):
		return Decision{Agent: models.AgentData, Description: "analyze productivity data and produce insights", Priority: 6}
	}
	return defaultDecision
}
