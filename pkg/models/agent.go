package models

// AgentName identifies a node in the workflow graph.
type AgentName string

const (
	AgentSupervisor    AgentName = "supervisor"
	AgentHealth        AgentName = "health_agent"
	AgentPlan          AgentName = "plan_agent"
	AgentData          AgentName = "data_agent"
	AgentWorkLife      AgentName = "worklife_balance_agent"
	AgentCommunication AgentName = "communication_agent"
)

// HandlerAgents lists the five routable domain handlers, in graph order.
var HandlerAgents = []AgentName{
	AgentHealth,
	AgentPlan,
	AgentData,
	AgentWorkLife,
	AgentCommunication,
}

// Valid reports whether name is one of the routable handler agents.
func (a AgentName) Valid() bool {
	for _, h := range HandlerAgents {
		if a == h {
			return true
		}
	}
	return false
}

// System status tags set by the nodes as they complete.
const (
	StatusInitialized           = "initialized"
	StatusTaskAssigned          = "task_assigned"
	StatusHealthCompleted       = "health_analysis_completed"
	StatusPlanCompleted         = "schedule_plan_completed"
	StatusDataCompleted         = "data_analysis_completed"
	StatusWorkLifeCompleted     = "worklife_analysis_completed"
	StatusCommunicationComplete = "communication_completed"
	StatusError                 = "error"
)
