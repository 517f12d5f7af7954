package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

func TestRequestProgressQAPath(t *testing.T) {
	p := newRequestProgress()
	assert.Equal(t, domain.StateIdle, p.current())

	p.advance(domain.StateRetrieving)
	p.advance(domain.StateAssembling)
	p.advance(domain.StateStreaming)
	p.advance(domain.StateCompleted)

	assert.Equal(t, domain.StateCompleted, p.current())
}

func TestRequestProgressVisualizationPath(t *testing.T) {
	p := newRequestProgress()

	p.advance(domain.StateRetrieving)
	p.advance(domain.StateAssembling)
	p.advance(domain.StatePlanning)
	p.advance(domain.StateRendering)
	p.advance(domain.StateCompleted)

	assert.Equal(t, domain.StateCompleted, p.current())
}

func TestRequestProgressIllegalTransitionIgnored(t *testing.T) {
	p := newRequestProgress()

	p.advance(domain.StateStreaming)

	assert.Equal(t, domain.StateIdle, p.current())
}

func TestRequestProgressFailBeforeWorkIsNoop(t *testing.T) {
	p := newRequestProgress()

	p.fail()

	assert.Equal(t, domain.StateIdle, p.current())
}

func TestRequestProgressFailIsTerminal(t *testing.T) {
	p := newRequestProgress()
	p.advance(domain.StateRetrieving)
	p.fail()

	assert.Equal(t, domain.StateFailed, p.current())

	p.advance(domain.StateAssembling)
	assert.Equal(t, domain.StateFailed, p.current())
}
