package runs

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"

	"go-plandy/internal/workflow"
	"go-plandy/pkg/logger"
	"go-plandy/pkg/messages"
	"go-plandy/pkg/models"
)

// runComplete is the actor-internal signal that the pipeline goroutine has
// delivered its final state.
type runComplete struct {
	state models.SharedState
}

// Actor owns one pipeline run. StartRun kicks the engine off on a goroutine;
// progress flows back as messages so GetStatus can be answered at any point
// without blocking on the run.
type Actor struct {
	engine *workflow.Engine
	status messages.RunStatus
}

func NewActor(engine *workflow.Engine) actor.Actor {
	return &Actor{engine: engine, status: messages.RunStatus{State: messages.RunPending}}
}

func (a *Actor) Receive(c actor.Context) {
	switch msg := c.Message().(type) {
	case *actor.Started:
		log.Debug().Msg("run actor started")
	case messages.StartRun:
		a.handleStart(c, msg)
	case messages.NodeProgress:
		a.status.Progress = append(a.status.Progress, msg)
	case runComplete:
		a.handleComplete(msg.state)
	case messages.GetStatus:
		c.Respond(a.status)
	}
}

func (a *Actor) handleStart(c actor.Context, msg messages.StartRun) {
	a.status.RunID = msg.RunID
	a.status.State = messages.RunRunning
	a.status.StartedAt = time.Now()

	l := log.With().Str(logger.RunIDField, msg.RunID.String()).Logger()
	l.Info().Int64(logger.UserIDField, msg.UserID).Msg("run started")

	self := c.Self()
	root := c.ActorSystem().Root
	engine := a.engine

	go func() {
		st := models.NewInitialState(msg.Message, msg.UserID, msg.SessionID)
		for ev := range engine.Stream(context.Background(), st) {
			if ev.Terminal {
				root.Send(self, runComplete{state: ev.State})
				continue
			}
			root.Send(self, messages.NodeProgress{
				Node:       ev.Node,
				Status:     ev.State.SystemStatus,
				Message:    lastMessage(ev.State),
				FinishedAt: time.Now(),
			})
		}
	}()
}

func (a *Actor) handleComplete(st models.SharedState) {
	now := time.Now()
	a.status.FinishedAt = &now
	a.status.AIResponse = st.AIResponse
	a.status.SystemStatus = st.SystemStatus
	a.status.Errors = st.ErrorMessages
	if st.SystemStatus == models.StatusError {
		a.status.State = messages.RunFailed
	} else {
		a.status.State = messages.RunFinished
	}
	log.Info().
		Str(logger.RunIDField, a.status.RunID.String()).
		Str("state", a.status.State).
		Msg("run completed")
}

func lastMessage(st models.SharedState) string {
	if len(st.Messages) == 0 {
		return ""
	}
	return st.Messages[len(st.Messages)-1].Content
}
