package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plandy/internal/llm"
	"go-plandy/pkg/models"
)

func TestAnalyzeBaseline(t *testing.T) {
	h := NewHandler(llm.New("", "", 0))

	a := h.Analyze(1, "건강 상태 알려줘")

	assert.Equal(t, 75.5, a.HealthScore)
	assert.Equal(t, 6.2, a.StressLevel)
	assert.Len(t, a.Recommendations, 2)
}

func TestAnalyzeStressKeywordAddsRecommendation(t *testing.T) {
	h := NewHandler(llm.New("", "", 0))

	a := h.Analyze(1, "요즘 스트레스가 너무 심해")

	assert.Len(t, a.Recommendations, 3)
}

func TestRecommendFallbackCarriesError(t *testing.T) {
	h := NewHandler(llm.New("", "", 0))

	rec := h.Recommend(context.Background(), Analysis{HealthScore: 75, StressLevel: 8})

	assert.Contains(t, rec, "decent")
	assert.Contains(t, rec, "Stress is running high")
	assert.Contains(t, rec, "API error")
}

func TestNodeRunEmitsHealthSlot(t *testing.T) {
	node := NewNode(NewHandler(llm.New("", "", 0)))
	st := models.NewInitialState("건강 체크해줘", 1, "s1")
	st.CurrentTask = &models.Task{Agent: models.AgentHealth, Description: "check health"}
	st.TaskHistory = []models.Task{*st.CurrentTask}

	delta := node.Run(context.Background(), st)

	require.NotNil(t, delta.HealthData)
	assert.Equal(t, 75.5, delta.HealthData.HealthScore)
	assert.Equal(t, models.StatusHealthCompleted, *delta.SystemStatus)
	require.Len(t, delta.TaskHistory, 1)
	assert.True(t, delta.TaskHistory[0].Done)
	assert.Contains(t, delta.Context, "health_handoff")
}

func TestNodeRunPassesThroughWhenMisrouted(t *testing.T) {
	node := NewNode(NewHandler(llm.New("", "", 0)))
	st := models.NewInitialState("hello", 1, "s1")

	delta := node.Run(context.Background(), st)

	assert.Equal(t, models.Delta{}, delta)
}
