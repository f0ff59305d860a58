package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plandy/internal/agents/communication"
	"go-plandy/internal/agents/data"
	"go-plandy/internal/agents/health"
	"go-plandy/internal/agents/plan"
	"go-plandy/internal/agents/supervisor"
	"go-plandy/internal/agents/worklife"
	"go-plandy/internal/clock"
	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
	"go-plandy/pkg/models"
)

// fakeStore stands in for the SQLite store in pipeline tests.
type fakeStore struct {
	schedules []schedule.Schedule
	saved     []schedule.Schedule
}

func (f *fakeStore) List(context.Context, int64, *time.Time) ([]schedule.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeStore) Save(_ context.Context, sc schedule.Schedule) (int64, error) {
	f.saved = append(f.saved, sc)
	return int64(len(f.saved)), nil
}

func newPipeline(store *fakeStore) *Engine {
	factory := llm.New("", "", 0)
	cl := clock.NewService("UTC")

	return New(
		supervisor.NewNode(supervisor.KeywordDecider{}).Run,
		map[models.AgentName]NodeFunc{
			models.AgentHealth:        health.NewNode(health.NewHandler(factory)).Run,
			models.AgentPlan:          plan.NewNode(plan.NewHandler(factory, store)).Run,
			models.AgentData:          data.NewNode(data.NewHandler(factory)).Run,
			models.AgentWorkLife:      worklife.NewNode(worklife.NewHandler(factory, store)).Run,
			models.AgentCommunication: communication.NewNode(communication.NewHandler(factory, store, cl)).Run,
		},
	)
}

func TestPipelineConversationalRequest(t *testing.T) {
	store := &fakeStore{schedules: []schedule.Schedule{{
		Title: "standup", StartTime: time.Now(), EndTime: time.Now().Add(30 * time.Minute), DurationMinutes: 30,
	}}}
	engine := newPipeline(store)

	final := engine.Run(context.Background(), models.NewInitialState("오늘 일정 확인해줘", 1, "s1"))

	assert.Equal(t, models.StatusCommunicationComplete, final.SystemStatus)
	assert.NotEmpty(t, final.AIResponse)
	assert.Empty(t, final.ErrorMessages)
	assert.Equal(t, 1, final.SupervisorCallCount)
	require.Len(t, final.TaskHistory, 1)
	assert.Equal(t, models.AgentCommunication, final.TaskHistory[0].Agent)
	assert.True(t, final.TaskHistory[0].Done)
}

func TestPipelineScheduleRegistration(t *testing.T) {
	store := &fakeStore{}
	engine := newPipeline(store)

	final := engine.Run(context.Background(), models.NewInitialState("내일 회의 일정 등록해줘", 1, "s1"))

	// plan runs as the routed hop, then the static chain falls through to
	// communication for the user-facing reply
	assert.Equal(t, models.StatusCommunicationComplete, final.SystemStatus)
	require.NotNil(t, final.ScheduleData)
	assert.NotEmpty(t, final.ScheduleData.TimeBlocks)
	require.Len(t, store.saved, 1)
	assert.Empty(t, final.ErrorMessages)
	require.NotNil(t, final.CurrentTask)
	assert.Equal(t, models.AgentPlan, final.CurrentTask.Agent)
}

func TestPipelineHealthChainReachesEnd(t *testing.T) {
	engine := newPipeline(&fakeStore{})

	final := engine.Run(context.Background(), models.NewInitialState("요즘 스트레스가 심해", 1, "s1"))

	require.NotNil(t, final.HealthData)
	assert.Equal(t, 75.5, final.HealthData.HealthScore)
	assert.Equal(t, models.StatusCommunicationComplete, final.SystemStatus)
	assert.NotEmpty(t, final.AIResponse)
}

func TestPipelineStreamTerminalMatchesRun(t *testing.T) {
	engine := newPipeline(&fakeStore{})
	st := models.NewInitialState("안녕하세요", 1, "s1")

	var terminal *StepEvent
	for ev := range engine.Stream(context.Background(), st) {
		if ev.Terminal {
			e := ev
			terminal = &e
		}
	}

	require.NotNil(t, terminal)
	assert.Equal(t, models.StatusCommunicationComplete, terminal.State.SystemStatus)
	assert.NotEmpty(t, terminal.State.AIResponse)
}
