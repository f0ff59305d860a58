package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plandy/internal/llm"
	"go-plandy/pkg/models"
)

func TestAnalyzeBaseline(t *testing.T) {
	h := NewHandler(llm.New("", "", 0))

	a := h.Analyze(1, "생산성 분석해줘")

	assert.Equal(t, 0.85, a.Metrics["task_completion_rate"])
	assert.Len(t, a.Insights, 3)
	assert.Nil(t, a.NewFeedback)
}

func TestAnalyzeFeedbackKeywordCollectsRecord(t *testing.T) {
	fixed := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	h := NewHandler(llm.New("", "", 0)).WithNowFunc(func() time.Time { return fixed })

	a := h.Analyze(7, "피드백 남기고 싶어")

	require.NotNil(t, a.NewFeedback)
	assert.Equal(t, "feedback_7_20250602_100000", a.NewFeedback.FeedbackID)
	assert.Equal(t, int64(7), a.NewFeedback.UserID)
}

func TestRecommendFallbackCarriesError(t *testing.T) {
	h := NewHandler(llm.New("", "", 0))

	rec := h.Recommend(context.Background(), Analysis{
		Trends:   map[string]string{"productivity": "improving"},
		Insights: []string{"a", "b"},
	})

	assert.Contains(t, rec, "improving")
	assert.Contains(t, rec, "2 insights")
	assert.Contains(t, rec, "API error")
}

func TestNodeRunEmitsInsightsAndFeedback(t *testing.T) {
	node := NewNode(NewHandler(llm.New("", "", 0)))
	st := models.NewInitialState("내 생산성 패턴 분석하고 피드백 받아줘", 1, "s1")
	st.CurrentTask = &models.Task{Agent: models.AgentData, Description: "analyze"}
	st.TaskHistory = []models.Task{*st.CurrentTask}

	delta := node.Run(context.Background(), st)

	assert.Equal(t, models.StatusDataCompleted, *delta.SystemStatus)
	assert.NotEmpty(t, delta.Recommendations)
	require.Len(t, delta.FeedbackData, 1)
	require.Len(t, delta.TaskHistory, 1)
	assert.True(t, delta.TaskHistory[0].Done)
}
