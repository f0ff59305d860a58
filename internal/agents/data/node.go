package data

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

// Run analyzes behavior patterns and productivity metrics and emits any
// collected feedback. Misrouted states pass through unchanged.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentData)).Logger()

	if st.CurrentTask == nil || st.CurrentTask.Agent != models.AgentData {
		l.Warn().Msg("called without matching task assignment, passing state through")
		return models.Delta{}
	}

	analysis := n.handler.Analyze(st.UserID, st.UserRequest)
	recommendation := n.handler.Recommend(ctx, analysis)

	now := n.handler.nowFn()
	msg := models.NewAgentMessage(models.AgentData,
		fmt.Sprintf("[Data Agent] productivity analysis complete: %d insight(s)", len(analysis.Insights)), now)

	response := fmt.Sprintf(
		"Productivity analysis complete!\n\nTask completion: %.0f%%\nFocus time: %.0f%%\nEstimation accuracy: %.0f%%\n\n%s",
		analysis.Metrics["task_completion_rate"]*100,
		analysis.Metrics["focus_time_percentage"]*100,
		analysis.Metrics["time_estimation_accuracy"]*100,
		recommendation)

	d := models.Delta{
		Messages:         st.AppendMessage(msg),
		TaskHistory:      models.CloseTail(st.TaskHistory, now),
		AIRecommendation: models.String(recommendation),
		AIResponse:       models.String(response),
		Recommendations:  append(append([]string{}, st.Recommendations...), analysis.Insights...),
		SystemStatus:     models.String(models.StatusDataCompleted),
	}
	if analysis.NewFeedback != nil {
		d.FeedbackData = append(append([]models.UserFeedback{}, st.FeedbackData...), *analysis.NewFeedback)
	}

	l.Info().Int("insights", len(analysis.Insights)).Msg("data analysis completed")
	return d
}
