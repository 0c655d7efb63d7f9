package task

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChargeSubscriptionTask(t *testing.T) {
	executeAt := time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC)
	task, err := NewChargeSubscriptionTask(context.Background(), "subs_1", executeAt)
	require.NoError(t, err)
	assert.True(t, task.ExecuteAt.Equal(executeAt))
	assert.Equal(t, "subs_1", task.Data.SubscriptionID)
	assert.NoError(t, task.Validate())

	_, err = NewChargeSubscriptionTask(context.Background(), "", executeAt)
	assert.True(t, ierr.IsValidation(err))
}

func TestIsDue(t *testing.T) {
	executeAt := time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC)
	task, err := NewChargeSubscriptionTask(context.Background(), "subs_1", executeAt)
	require.NoError(t, err)

	assert.False(t, task.IsDue(executeAt.Add(-time.Second)))
	assert.True(t, task.IsDue(executeAt))
	assert.True(t, task.IsDue(executeAt.Add(time.Hour)))

	// A claimed task is never due again
	task.MarkStarted(executeAt.Add(time.Hour))
	assert.False(t, task.IsDue(executeAt.Add(2*time.Hour)))
}

func TestMarkCompletedRecordsError(t *testing.T) {
	executeAt := time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC)
	task, err := NewChargeSubscriptionTask(context.Background(), "subs_1", executeAt)
	require.NoError(t, err)

	task.MarkStarted(executeAt)
	task.MarkCompleted(executeAt.Add(time.Second), errors.New("charge rejected"))
	require.NotNil(t, task.EndedAt)
	require.NotNil(t, task.Error)
	assert.Equal(t, "charge rejected", *task.Error)
	assert.False(t, task.IsDue(executeAt.Add(time.Hour)))
}
