package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistryLookup(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()
	r.AddAgent(Agent{ID: 1, Name: "researcher"})
	require.NoError(t, r.AddExecution(Execution{ID: 10, AgentID: 1, Name: "run one"}))

	a, err := r.GetAgent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "researcher", a.Name)

	e, err := r.GetExecution(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.AgentID)
}

func TestMemoryRegistryNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	_, err := r.GetAgent(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "agent 7")

	_, err = r.GetExecution(ctx, 8)
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.AddExecution(Execution{ID: 9, AgentID: 42})
	assert.ErrorIs(t, err, ErrNotFound)
}
