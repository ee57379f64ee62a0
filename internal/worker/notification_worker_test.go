package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingConsumer struct {
	registered int
}

func (c *countingConsumer) RegisterHandlers() {
	c.registered++
}

func TestStartRegistersAllConsumers(t *testing.T) {
	first := &countingConsumer{}
	second := &countingConsumer{}

	Start(first, nil, second)

	assert.Equal(t, 1, first.registered)
	assert.Equal(t, 1, second.registered)
}

func TestStartWithNoConsumers(t *testing.T) {
	assert.NotPanics(t, func() { Start() })
}
