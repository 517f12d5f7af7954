package services

import (
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// requestProgress walks one request through its lifecycle states.
// Transitions are validated against the domain state machine and
// logged in verbose mode so a stuck request can be located.
type requestProgress struct {
	state domain.RequestState
}

func newRequestProgress() *requestProgress {
	return &requestProgress{state: domain.StateIdle}
}

// advance moves to next when the transition is legal. Illegal
// transitions indicate a bug in the calling flow and are logged
// rather than panicking mid-request.
func (p *requestProgress) advance(next domain.RequestState) {
	if !p.state.CanTransition(next) {
		logger.Warn("illegal request state transition %s -> %s", p.state, next)
		return
	}
	logger.Debug("request state %s -> %s", p.state, next)
	p.state = next
}

// fail marks the request failed. A no-op before any work started.
func (p *requestProgress) fail() {
	if p.state.CanTransition(domain.StateFailed) {
		p.advance(domain.StateFailed)
	}
}

func (p *requestProgress) current() domain.RequestState {
	return p.state
}
