package workflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
)

// NodeFunc is one node of the graph. Nodes receive the current state and
// return a delta; they handle their own failures and never panic on purpose.
type NodeFunc func(ctx context.Context, st models.SharedState) models.Delta

// Engine walks the agent graph for one request at a time. It holds only the
// wiring decided at construction; all per-request state lives in the
// SharedState value passed through.
type Engine struct {
	supervisor NodeFunc
	handlers   map[models.AgentName]NodeFunc
	successors map[models.AgentName]models.AgentName
}

// New builds the engine over a supervisor node and the five handler nodes.
// The static edges after the supervisor's single conditional hop are fixed:
// health->plan, plan->worklife, data->worklife, worklife->communication,
// communication->end. Once the supervisor has routed into a handler, the
// chain runs to the end without consulting the supervisor again; the routing
// decision is only honored for the first hop. That asymmetry is inherited
// behavior, kept deliberately.
func New(supervisor NodeFunc, handlers map[models.AgentName]NodeFunc) *Engine {
	return &Engine{
		supervisor: supervisor,
		handlers:   handlers,
		successors: map[models.AgentName]models.AgentName{
			models.AgentHealth:        models.AgentPlan,
			models.AgentPlan:          models.AgentWorkLife,
			models.AgentData:          models.AgentWorkLife,
			models.AgentWorkLife:      models.AgentCommunication,
			models.AgentCommunication: "",
		},
	}
}

// Route picks the handler for the current task. With no task routed, the
// request falls through to communication.
func Route(st models.SharedState) models.AgentName {
	if st.CurrentTask == nil {
		return models.AgentCommunication
	}
	if !st.CurrentTask.Agent.Valid() {
		return models.AgentCommunication
	}
	return st.CurrentTask.Agent
}

// StepEvent is one unit of streaming progress: the node that just finished
// and the state merged so far. The last event carries Terminal=true and no
// node name.
type StepEvent struct {
	Node     models.AgentName
	State    models.SharedState
	Terminal bool
}

// Run executes the graph to completion and returns the final state. Handler
// failures surface as degraded state, not as an error; only a node panic
// terminates the traversal early, with system_status set to error.
func (e *Engine) Run(ctx context.Context, st models.SharedState) models.SharedState {
	final := st
	e.walk(ctx, st, func(_ models.AgentName, merged models.SharedState) bool {
		final = merged
		return true
	})
	return final
}

// Stream executes the same traversal but yields the merged state after every
// node, in visitation order, then a terminal marker. The channel closes after
// the terminal event. Cancelling ctx stops the walk between nodes.
func (e *Engine) Stream(ctx context.Context, st models.SharedState) <-chan StepEvent {
	out := make(chan StepEvent)
	go func() {
		defer close(out)
		final := st
		e.walk(ctx, st, func(node models.AgentName, merged models.SharedState) bool {
			final = merged
			select {
			case out <- StepEvent{Node: node, State: merged}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		select {
		case out <- StepEvent{State: final, Terminal: true}:
		case <-ctx.Done():
		}
	}()
	return out
}

// walk runs supervisor, the routed handler, then the static chain, invoking
// visit after each merge. visit returning false aborts the walk.
func (e *Engine) walk(ctx context.Context, st models.SharedState, visit func(models.AgentName, models.SharedState) bool) {
	st, fault := e.apply(ctx, models.AgentSupervisor, e.supervisor, st)
	if !visit(models.AgentSupervisor, st) || fault {
		return
	}

	next := Route(st)
	for next != "" {
		if ctx.Err() != nil {
			return
		}
		node, ok := e.handlers[next]
		if !ok {
			log.Error().Str(logger.NodeField, string(next)).Msg("no handler registered for node")
			return
		}
		var halted bool
		st, halted = e.apply(ctx, next, node, st)
		if !visit(next, st) || halted {
			return
		}
		next = e.successors[next]
	}
}

// apply invokes one node and merges its delta. A panic inside a node is an
// engine-level fault: the run terminates with an error status instead of
// crashing the process.
func (e *Engine) apply(ctx context.Context, name models.AgentName, node NodeFunc, st models.SharedState) (merged models.SharedState, fault bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str(logger.NodeField, string(name)).Msgf("node panicked: %v", r)
			merged = models.Merge(st, models.ErrorDelta(st, fmt.Sprintf("%s node fault: %v", name, r)))
			fault = true
		}
	}()
	delta := node(ctx, st)
	return models.Merge(st, delta), false
}

// Info describes the static graph shape for the health endpoint.
type Info struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

func (e *Engine) Info() Info {
	info := Info{Nodes: []string{string(models.AgentSupervisor)}}
	for _, h := range models.HandlerAgents {
		info.Nodes = append(info.Nodes, string(h))
		info.Edges = append(info.Edges, [2]string{string(models.AgentSupervisor), string(h)})
	}
	for from, to := range e.successors {
		if to != "" {
			info.Edges = append(info.Edges, [2]string{string(from), string(to)})
		}
	}
	return info
}
