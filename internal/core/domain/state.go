package domain

// RequestState tracks a generation request through the orchestrator.
type RequestState string

// Request states. Failed is terminal and reachable from any non-idle
// state on an unrecoverable error.
const (
	StateIdle       RequestState = "idle"
	StateRetrieving RequestState = "retrieving"
	StateAssembling RequestState = "assembling"
	StateStreaming  RequestState = "streaming"
	StatePlanning   RequestState = "planning"
	StateRendering  RequestState = "rendering"
	StateCompleted  RequestState = "completed"
	StateFailed     RequestState = "failed"
)

// Terminal returns true for states a request never leaves.
func (s RequestState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransition reports whether moving from s to next is legal.
func (s RequestState) CanTransition(next RequestState) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return s != StateIdle
	}
	switch s {
	case StateIdle:
		return next == StateRetrieving
	case StateRetrieving:
		return next == StateAssembling
	case StateAssembling:
		return next == StateStreaming || next == StatePlanning
	case StateStreaming:
		return next == StateCompleted
	case StatePlanning:
		return next == StateRendering
	case StateRendering:
		return next == StateCompleted
	default:
		return false
	}
}
