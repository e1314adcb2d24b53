package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New("test", zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
	return l
}

func TestPostRunsTasksInSubmissionOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, l.Post(TaskFunc(func(context.Context) {
			got = append(got, i)
			if i == 99 {
				close(done)
			}
		})))
	}
	<-done

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestPostFromManyGoroutinesRunsEverything(t *testing.T) {
	l := startLoop(t)

	const posters, each = 8, 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	finished := make(chan struct{})
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				l.Post(TaskFunc(func(context.Context) {
					mu.Lock()
					count++
					if count == posters*each {
						close(finished)
					}
					mu.Unlock()
				}))
			}
		}()
	}
	wg.Wait()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not all run")
	}
}

func TestIsCurrentOnlyInsideTasks(t *testing.T) {
	l := startLoop(t)
	other := New("other", nil)

	var escaped context.Context
	results := make(chan [2]bool, 1)
	require.NoError(t, l.Invoke(context.Background(), TaskFunc(func(ctx context.Context) {
		escaped = ctx
		results <- [2]bool{l.IsCurrent(ctx), other.IsCurrent(ctx)}
	})))

	got := <-results
	assert.True(t, got[0])
	assert.False(t, got[1])
	assert.False(t, l.IsCurrent(context.Background()))
	assert.False(t, l.IsCurrent(escaped), "context must lose loop identity after its task returns")
}

func TestInvokeRunsInlineOnLoop(t *testing.T) {
	l := startLoop(t)

	var order []string
	require.NoError(t, l.Invoke(context.Background(), TaskFunc(func(ctx context.Context) {
		order = append(order, "outer")
		require.NoError(t, l.Invoke(ctx, TaskFunc(func(context.Context) {
			order = append(order, "inner")
		})))
		order = append(order, "after")
	})))
	assert.Equal(t, []string{"outer", "inner", "after"}, order)
}

func TestPostAfterStopIsRejected(t *testing.T) {
	l := New("stopped", nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	cancel()
	require.NoError(t, <-errCh)

	<-l.Done()
	assert.False(t, l.Post(TaskFunc(func(context.Context) {})))
	assert.ErrorIs(t, l.Invoke(context.Background(), TaskFunc(func(context.Context) {})), ErrStopped)
}

func TestRunTwiceFails(t *testing.T) {
	l := startLoop(t)
	// Ensure the first Run has claimed the loop.
	require.NoError(t, l.Invoke(context.Background(), TaskFunc(func(context.Context) {})))

	err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}
