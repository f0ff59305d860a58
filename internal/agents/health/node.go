package health

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
	"go-plandy/pkg/template"
)

const handoffTemplate = `Health analysis for downstream planning:
health score {{.HealthScore}}/100, stress {{.StressLevel}}/10, sleep {{.SleepQuality}}/10, exercise {{.ExerciseFrequency}}/week.`

// Node is the health graph node.
type Node struct {
	handler *Handler
	nowFn   func() time.Time
}

func NewNode(h *Handler) *Node {
	return &Node{handler: h, nowFn: time.Now}
}

func (n *Node) WithNowFunc(fn func() time.Time) *Node {
	return &Node{handler: n.handler, nowFn: fn}
}

// Run analyzes the user's health and emits the health slot, a summary
// message, the closed task, and a handoff note for the plan and worklife
// stages. A state routed to a different agent passes through unchanged.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentHealth)).Logger()

	if st.CurrentTask == nil || st.CurrentTask.Agent != models.AgentHealth {
		l.Warn().Msg("called without matching task assignment, passing state through")
		return models.Delta{}
	}

	analysis := n.handler.Analyze(st.UserID, st.UserRequest)
	recommendation := n.handler.Recommend(ctx, analysis)

	healthData := &models.HealthData{
		HealthScore:       analysis.HealthScore,
		StressLevel:       analysis.StressLevel,
		SleepQuality:      analysis.SleepQuality,
		ExerciseFrequency: analysis.ExerciseFrequency,
		HabitPatterns:     analysis.HabitPatterns,
		Recommendations:   analysis.Recommendations,
	}

	now := n.nowFn()
	msg := models.NewAgentMessage(models.AgentHealth,
		fmt.Sprintf("[Health Agent] health analysis complete: score %.1f/100", analysis.HealthScore), now)

	response := fmt.Sprintf(
		"Health check complete!\n\nHealth score: %.1f/100\nStress level: %.1f/10\nSleep quality: %.1f/10\nExercise: %.1f/week\n\n%s",
		analysis.HealthScore, analysis.StressLevel, analysis.SleepQuality, analysis.ExerciseFrequency, recommendation)

	context := map[string]any{}
	for k, v := range st.Context {
		context[k] = v
	}
	if handoff, err := template.Parse(handoffTemplate, analysis); err == nil {
		context["health_handoff"] = handoff
	}

	l.Info().Msg("health analysis completed")

	return models.Delta{
		Messages:         st.AppendMessage(msg),
		HealthData:       healthData,
		TaskHistory:      models.CloseTail(st.TaskHistory, now),
		AIRecommendation: models.String(recommendation),
		AIResponse:       models.String(response),
		SystemStatus:     models.String(models.StatusHealthCompleted),
		Context:          context,
	}
}
