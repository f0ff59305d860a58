package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
)

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

// Run creates and stores a schedule for the request and emits the schedule
// slot. Misrouted states pass through unchanged.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentPlan)).Logger()

	if st.CurrentTask == nil || st.CurrentTask.Agent != models.AgentPlan {
		l.Warn().Msg("called without matching task assignment, passing state through")
		return models.Delta{}
	}

	p := n.handler.Create(ctx, st.UserID, st.UserRequest)

	blocks := make([]map[string]any, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		blocks = append(blocks, map[string]any{
			"task_id":    b.TaskID,
			"title":      b.Title,
			"start_time": b.StartTime.Format(time.RFC3339),
			"end_time":   b.EndTime.Format(time.RFC3339),
			"duration":   b.DurationMinutes,
			"priority":   b.Priority,
		})
	}

	scheduleData := &models.ScheduleData{
		ScheduleID: p.ScheduleID,
		Tasks: []map[string]any{{
			"title":       p.Title,
			"description": p.Description,
			"saved_id":    p.SavedID,
		}},
		TimeBlocks: blocks,
		Constraints: map[string]any{
			"work_start":  p.Constraints.WorkStart.String(),
			"work_end":    p.Constraints.WorkEnd.String(),
			"gap_minutes": p.Constraints.GapMinutes,
		},
		EfficiencyScore: p.EfficiencyScore,
		Conflicts:       p.Conflicts,
	}

	now := n.nowFn()
	msg := models.NewAgentMessage(models.AgentPlan,
		fmt.Sprintf("[Plan Agent] schedule plan complete: %d block(s) created", len(p.Blocks)), now)

	response := fmt.Sprintf("Your schedule has been created!\n\nTitle: %s\n", p.Title)
	if len(p.Blocks) > 0 {
		response += fmt.Sprintf("Time: %s - %s\nDuration: %d minutes\n",
			p.Blocks[0].StartTime.Format("15:04"), p.Blocks[0].EndTime.Format("15:04"),
			p.Blocks[0].DurationMinutes)
	}
	response += fmt.Sprintf("Efficiency score: %.0f/100\n", p.EfficiencyScore)

	l.Info().Int("blocks", len(p.Blocks)).Msg("schedule plan completed")

	return models.Delta{
		Messages:     st.AppendMessage(msg),
		ScheduleData: scheduleData,
		TaskHistory:  models.CloseTail(st.TaskHistory, now),
		AIResponse:   models.String(response),
		SystemStatus: models.String(models.StatusPlanCompleted),
	}
}
