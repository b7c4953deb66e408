package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/allocman/service/messaging"
)

type testPayload struct {
	ID    string
	Count int
}

func TestQueue(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()
	payload := testPayload{ID: "test-1", Count: 1}

	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueue_Full(t *testing.T) {
	var testCases = []struct {
		description string
		block       bool
		expectErr   error
	}{
		{description: "non-blocking publish fails", expectErr: messaging.ErrFull},
		{description: "blocking publish honours context", block: true, expectErr: context.DeadlineExceeded},
	}
	for _, testCase := range testCases {
		queue := NewQueue[testPayload](Config{Buffer: 1, Block: testCase.block})
		require.NoError(t, queue.Publish(context.Background(), &testPayload{ID: "1"}), testCase.description)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		err := queue.Publish(ctx, &testPayload{ID: "2"})
		cancel()
		assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
	}
}

func TestQueue_Concurrent(t *testing.T) {
	queue := NewQueue[testPayload](Config{Buffer: 10, Block: true})
	ctx := context.Background()
	const count = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			assert.NoError(t, queue.Publish(ctx, &testPayload{Count: i}))
		}
	}()
	seen := make(map[int]bool)
	for i := 0; i < count; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		seen[message.T().Count] = true
		assert.NoError(t, message.Ack())
	}
	wg.Wait()
	assert.Len(t, seen, count)
}
