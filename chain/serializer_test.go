package chain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSerializer(t *testing.T) *serializer {
	t.Helper()
	s := newSerializer()
	go s.run()
	t.Cleanup(s.stop)
	return s
}

func TestSerializerRunsInSubmissionOrder(t *testing.T) {
	s := newTestSerializer(t)

	var order []int
	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, s.do(context.Background(), func() {
			order = append(order, i)
		}))
	}

	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestSerializerMutualExclusion(t *testing.T) {
	s := newTestSerializer(t)

	var (
		wg      sync.WaitGroup
		running int
		max     int
		counter int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.do(context.Background(), func() {
				running++
				if running > max {
					max = running
				}
				time.Sleep(time.Millisecond)
				counter++
				running--
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max)
	assert.Equal(t, 32, counter)
}

func TestSerializerDoWaitsForCompletion(t *testing.T) {
	s := newTestSerializer(t)

	done := false
	require.NoError(t, s.do(context.Background(), func() {
		time.Sleep(5 * time.Millisecond)
		done = true
	}))
	assert.True(t, done)
}

func TestSerializerContextCancelsEnqueue(t *testing.T) {
	s := newTestSerializer(t)

	blocker := make(chan struct{})
	go func() {
		_ = s.do(context.Background(), func() {
			<-blocker
		})
	}()

	// Let the blocking task occupy the writer slot.
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := s.do(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(blocker)
}

func TestSerializerClosedRejectsWork(t *testing.T) {
	s := newSerializer()
	go s.run()
	s.stop()

	err := s.do(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrEngineClosed)
}
