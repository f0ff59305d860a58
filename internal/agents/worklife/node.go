package worklife

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
)

type Node struct {
	handler *Handler
}

func NewNode(h *Handler) *Node {
	return &Node{handler: h}
}

// Run scores the user's work-life balance from today's schedule and emits the
// balance slot. When a health analysis ran earlier in the pipeline, its stress
// level feeds the score. Misrouted states pass through unchanged.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentWorkLife)).Logger()

	if st.CurrentTask == nil || st.CurrentTask.Agent != models.AgentWorkLife {
		l.Warn().Msg("called without matching task assignment, passing state through")
		return models.Delta{}
	}

	stress := -1.0
	if st.HealthData != nil {
		stress = st.HealthData.StressLevel
	}
	analysis := n.handler.Analyze(ctx, st.UserID, stress)
	recommendation := n.handler.Recommend(ctx, analysis)

	balanceData := &models.WorkLifeBalanceData{
		BalanceScore:           analysis.BalanceScore,
		WorkHours:              analysis.WorkHours,
		LeisureHours:           analysis.PersonalHours,
		StressIndicators:       analysis.StressIndicators,
		ImprovementSuggestions: analysis.Improvements,
	}

	now := n.handler.nowFn()
	msg := models.NewAgentMessage(models.AgentWorkLife,
		fmt.Sprintf("[WorkLife Agent] balance analysis complete: score %.0f/100", analysis.BalanceScore), now)

	response := fmt.Sprintf(
		"Work-life balance check complete!\n\nBalance score: %.0f/100\nWork: %.1fh / Personal: %.1fh\n\n%s",
		analysis.BalanceScore, analysis.WorkHours, analysis.PersonalHours, recommendation)

	l.Info().Float64("balance_score", analysis.BalanceScore).Msg("worklife analysis completed")

	return models.Delta{
		Messages:         st.AppendMessage(msg),
		WorkLifeData:     balanceData,
		TaskHistory:      models.CloseTail(st.TaskHistory, now),
		AIRecommendation: models.String(recommendation),
		AIResponse:       models.String(response),
		SystemStatus:     models.String(models.StatusWorkLifeCompleted),
	}
}
