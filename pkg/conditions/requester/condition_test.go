package requester

import (
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	cond := NewCondition(nil)

	entity := &models.Entity{ID: "e", RequesterID: "user-9"}

	ok, err := cond.Evaluate(t.Context(), models.TransitionContext{
		User:   models.User{ID: "user-9"},
		Entity: entity,
	}, slog.Default())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Evaluate(t.Context(), models.TransitionContext{
		User:   models.User{ID: "user-1"},
		Entity: entity,
	}, slog.Default())
	require.NoError(t, err)
	assert.False(t, ok)

	// An anonymous user is never the requester, even when the entity has an
	// empty requester id.
	ok, err = cond.Evaluate(t.Context(), models.TransitionContext{
		User:   models.User{},
		Entity: &models.Entity{ID: "e"},
	}, slog.Default())
	require.NoError(t, err)
	assert.False(t, ok)
}
