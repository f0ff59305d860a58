package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plandy/pkg/models"
)

func recordingNode(name models.AgentName, visited *[]models.AgentName) NodeFunc {
	return func(_ context.Context, st models.SharedState) models.Delta {
		*visited = append(*visited, name)
		return models.Delta{SystemStatus: models.String(string(name) + "_done")}
	}
}

func routingSupervisor(target models.AgentName) NodeFunc {
	return func(_ context.Context, st models.SharedState) models.Delta {
		task := models.Task{Agent: target, Description: "test route"}
		return models.Delta{
			CurrentTask:         &task,
			TaskHistory:         append(models.CloseTail(st.TaskHistory, time.Now()), task),
			SupervisorCallCount: models.Int(st.SupervisorCallCount + 1),
			SystemStatus:        models.String(models.StatusTaskAssigned),
		}
	}
}

func allHandlers(visited *[]models.AgentName) map[models.AgentName]NodeFunc {
	handlers := make(map[models.AgentName]NodeFunc, len(models.HandlerAgents))
	for _, name := range models.HandlerAgents {
		handlers[name] = recordingNode(name, visited)
	}
	return handlers
}

func TestRunFollowsStaticChainFromHealth(t *testing.T) {
	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentHealth), allHandlers(&visited))

	final := engine.Run(context.Background(), models.NewInitialState("check my health", 1, "s1"))

	assert.Equal(t, []models.AgentName{
		models.AgentHealth, models.AgentPlan, models.AgentWorkLife, models.AgentCommunication,
	}, visited)
	assert.Equal(t, string(models.AgentCommunication)+"_done", final.SystemStatus)
	assert.Equal(t, 1, final.SupervisorCallCount)
}

func TestRunDataRoutesThroughWorkLife(t *testing.T) {
	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentData), allHandlers(&visited))

	engine.Run(context.Background(), models.NewInitialState("analyze my data", 1, "s1"))

	assert.Equal(t, []models.AgentName{
		models.AgentData, models.AgentWorkLife, models.AgentCommunication,
	}, visited)
}

func TestRunCommunicationEndsRun(t *testing.T) {
	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentCommunication), allHandlers(&visited))

	engine.Run(context.Background(), models.NewInitialState("hello", 1, "s1"))

	assert.Equal(t, []models.AgentName{models.AgentCommunication}, visited)
}

func TestRouteDefaultsToCommunication(t *testing.T) {
	st := models.NewInitialState("hello", 1, "s1")
	assert.Equal(t, models.AgentCommunication, Route(st))

	st.CurrentTask = &models.Task{Agent: "nonexistent_agent"}
	assert.Equal(t, models.AgentCommunication, Route(st))
}

func TestRunRecoversNodePanic(t *testing.T) {
	var visited []models.AgentName
	handlers := allHandlers(&visited)
	handlers[models.AgentPlan] = func(context.Context, models.SharedState) models.Delta {
		panic("boom")
	}
	engine := New(routingSupervisor(models.AgentHealth), handlers)

	final := engine.Run(context.Background(), models.NewInitialState("check my health", 1, "s1"))

	// the walk stops at the faulting node instead of crashing the process
	assert.Equal(t, []models.AgentName{models.AgentHealth}, visited)
	assert.Equal(t, models.StatusError, final.SystemStatus)
	require.NotEmpty(t, final.ErrorMessages)
	assert.Contains(t, final.ErrorMessages[0], "plan_agent node fault")
}

func TestStreamYieldsEveryStepThenTerminal(t *testing.T) {
	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentWorkLife), allHandlers(&visited))

	var events []StepEvent
	for ev := range engine.Stream(context.Background(), models.NewInitialState("balance?", 1, "s1")) {
		events = append(events, ev)
	}

	require.Len(t, events, 4) // supervisor, worklife, communication, terminal
	assert.Equal(t, models.AgentSupervisor, events[0].Node)
	assert.Equal(t, models.AgentWorkLife, events[1].Node)
	assert.Equal(t, models.AgentCommunication, events[2].Node)
	assert.True(t, events[3].Terminal)
	assert.Equal(t, events[2].State.SystemStatus, events[3].State.SystemStatus)
}

func TestStreamStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentHealth), allHandlers(&visited))

	for range engine.Stream(ctx, models.NewInitialState("check my health", 1, "s1")) {
	}
	// the channel still closes, and no handler ran after the cancel
	assert.Empty(t, visited)
}

func TestInfoDescribesGraph(t *testing.T) {
	var visited []models.AgentName
	engine := New(routingSupervisor(models.AgentHealth), allHandlers(&visited))

	info := engine.Info()

	assert.Len(t, info.Nodes, 6)
	assert.Contains(t, info.Nodes, "supervisor")
	assert.Contains(t, info.Edges, [2]string{"health_agent", "plan_agent"})
	assert.Contains(t, info.Edges, [2]string{"data_agent", "worklife_balance_agent"})
}
