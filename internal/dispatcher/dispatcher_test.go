package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RunsEveryWork(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	works := make([]Work, 20)
	for i := range works {
		i := i
		works[i] = Work{Index: i, Label: "w", Do: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			seen[i] = true
			return nil
		}}
	}

	require.NoError(t, Run(context.Background(), works, 4, nil))
	assert.Len(t, seen, 20)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	var active, peak int32
	release := make(chan struct{})
	works := make([]Work, 6)
	for i := range works {
		works[i] = Work{Index: i, Label: "w", Do: func(context.Context) error {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&active, -1)
			return nil
		}}
	}

	done := make(chan error)
	go func() { done <- Run(context.Background(), works, 2, nil) }()
	for range works {
		release <- struct{}{}
	}
	require.NoError(t, <-done)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRun_FirstErrorStopsBatch(t *testing.T) {
	boom := errors.New("boom")
	var ran int32
	works := make([]Work, 50)
	for i := range works {
		i := i
		works[i] = Work{Index: i, Label: "file", Do: func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			if i == 0 {
				return boom
			}
			return nil
		}}
	}

	err := Run(context.Background(), works, 1, nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "file")
	assert.Less(t, atomic.LoadInt32(&ran), int32(50))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	works := []Work{{Label: "w", Do: func(context.Context) error { return nil }}}

	assert.ErrorIs(t, Run(ctx, works, 2, nil), context.Canceled)
}

func TestRun_InvalidWork(t *testing.T) {
	err := Run(context.Background(), []Work{{Index: 3, Label: "empty"}}, 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestRun_EmptyBatch(t *testing.T) {
	assert.NoError(t, Run(context.Background(), nil, 4, nil))
}
