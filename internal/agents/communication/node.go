package communication

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
)

// Node is the communication graph node. Unlike the analysis nodes it accepts
// any state handed to it: the router falls back here when no task is assigned,
// so there is no precondition to enforce.
type Node struct {
	handler *Handler
	onChunk func(chunk string)
}

func NewNode(h *Handler) *Node {
	return &Node{handler: h}
}

// WithChunkSink returns a node that forwards streamed reply tokens to fn.
func (n *Node) WithChunkSink(fn func(chunk string)) *Node {
	return &Node{handler: n.handler, onChunk: fn}
}

// Run produces the user-facing reply and records the exchange in both the run
// state and the per-user history cache.
func (n *Node) Run(ctx context.Context, st models.SharedState) models.Delta {
	l := log.With().Str(logger.NodeField, string(models.AgentCommunication)).Logger()

	if st.CurrentTask != nil && st.CurrentTask.Agent != models.AgentCommunication {
		l.Warn().Str("assigned", string(st.CurrentTask.Agent)).Msg("handling a task assigned elsewhere")
	}

	reply := n.handler.Reply(ctx, st.UserID, st.UserInput, n.onChunk)

	now := n.handler.nowFn()
	userMsg := models.Message{
		Role:      "user",
		Content:   st.UserInput,
		Timestamp: now.Format(time.RFC3339),
		UserID:    st.UserID,
	}
	msgs := append(st.AppendMessage(userMsg), models.NewAgentMessage(models.AgentCommunication, reply, now))

	l.Info().Msg("communication completed")

	return models.Delta{
		Messages:     msgs,
		TaskHistory:  models.CloseTail(st.TaskHistory, now),
		AIResponse:   models.String(reply),
		SystemStatus: models.String(models.StatusCommunicationComplete),
	}
}
