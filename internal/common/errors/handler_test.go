// internal/common/errors/handler_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name       string
		jobRetries int32
		maxRetries int
		want       int
	}{
		{
			name:       "fresh job decrements below max",
			jobRetries: 3,
			maxRetries: 3,
			want:       2,
		},
		{
			name:       "partially consumed budget keeps decrementing",
			jobRetries: 2,
			maxRetries: 3,
			want:       1,
		},
		{
			name:       "last attempt exhausts the budget",
			jobRetries: 1,
			maxRetries: 3,
			want:       0,
		},
		{
			name:       "tighter error budget caps a generous job count",
			jobRetries: 10,
			maxRetries: 1,
			want:       1,
		},
		{
			name:       "never negative",
			jobRetries: 0,
			maxRetries: 3,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remainingRetries(tt.jobRetries, tt.maxRetries))
		})
	}
}

func TestRemainingRetries_StrictlyDecreases(t *testing.T) {
	// Re-failing a job must converge: each redelivery arrives with the
	// count from the previous FailJob command.
	retries := int32(3)
	steps := 0
	for retries > 0 {
		next := remainingRetries(retries, 3)
		assert.Less(t, next, int(retries))
		retries = int32(next)
		steps++
	}
	assert.Equal(t, 3, steps)
}

func TestClassify(t *testing.T) {
	t.Run("standard error passes through", func(t *testing.T) {
		stdErr := NewTimeoutError("postgres", fmt.Errorf("dial timeout"))
		got := classify(fmt.Errorf("store lookup: %w", stdErr))
		assert.Equal(t, stdErr.Code, got.Code)
		assert.True(t, got.Retryable)
	})

	t.Run("plain error becomes non-retryable internal", func(t *testing.T) {
		got := classify(fmt.Errorf("something unexpected"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.False(t, got.Retryable)
		assert.Equal(t, "something unexpected", got.Details)
	})
}
