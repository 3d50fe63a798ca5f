package worker

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/progress"
)

type memoryChannel struct {
	mu   sync.Mutex
	text string
	err  error
}

func (m *memoryChannel) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func (m *memoryChannel) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func TestThread_Lifecycle(t *testing.T) {
	ctx, tracker := progress.WithNewTracker(context.Background(), 1, nil)
	release := make(chan struct{})
	observed := make(chan State, 1)
	thread := New(7, TaskFunc(func(ctx context.Context, th *Thread) error {
		observed <- th.State()
		<-release
		return nil
	}))
	assert.Equal(t, Created, thread.State())

	require.NoError(t, thread.Start(ctx))
	assert.Equal(t, Running, <-observed)
	counts := tracker.Snapshot()
	assert.Equal(t, 1, counts.Created)
	assert.Equal(t, 1, counts.Running)
	assert.False(t, counts.Done())

	close(release)
	require.NoError(t, thread.Wait())
	assert.Equal(t, Finished, thread.State())
	counts = tracker.Snapshot()
	assert.Equal(t, 0, counts.Running)
	assert.Equal(t, 1, counts.Finished)
	assert.True(t, counts.Done())
}

func TestThread_TaskError(t *testing.T) {
	thread := New(0, TaskFunc(func(ctx context.Context, th *Thread) error {
		return errors.New(errors.ErrUncoded, "task failed")
	}))
	require.NoError(t, thread.Start(context.Background()))
	assert.EqualError(t, thread.Wait(), "task failed")
	assert.Equal(t, Finished, thread.State())
}

func TestThread_StartTwice(t *testing.T) {
	thread := New(0, TaskFunc(func(ctx context.Context, th *Thread) error { return nil }))
	require.NoError(t, thread.Start(context.Background()))
	err := thread.Start(context.Background())
	assert.True(t, errors.Is(err, errors.ErrThreadCreationFailed))
	require.NoError(t, thread.Wait())
}

func TestThread_WaitBeforeStart(t *testing.T) {
	thread := New(0, TaskFunc(func(ctx context.Context, th *Thread) error { return nil }))
	assert.True(t, errors.Is(thread.Wait(), errors.ErrThreadCreationFailed))
}

func TestThread_Pin(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("thread affinity is only applied on linux")
	}
	thread := New(0, TaskFunc(func(ctx context.Context, th *Thread) error { return nil }), WithCPU(0))
	require.NoError(t, thread.Start(context.Background()))
	require.NoError(t, thread.Wait())

	thread = New(1, TaskFunc(func(ctx context.Context, th *Thread) error { return nil }), WithCPU(1<<20))
	err := thread.Start(context.Background())
	assert.True(t, errors.Is(err, errors.ErrThreadCreationFailed), err)
	assert.Equal(t, Created, thread.State())
}

func TestSleep_ParallelThreads(t *testing.T) {
	buf := &bytes.Buffer{}
	out := console.New(buf)
	task := &Sleep{Duration: 300 * time.Millisecond, Out: out}

	started := time.Now()
	var threads []*Thread
	for i := 0; i < 3; i++ {
		thread := New(i, task)
		require.NoError(t, thread.Start(context.Background()))
		threads = append(threads, thread)
	}
	for _, thread := range threads {
		require.NoError(t, thread.Wait())
	}
	elapsed := time.Since(started)
	assert.Less(t, int64(elapsed), int64(900*time.Millisecond))

	output := buf.String()
	for _, line := range []string{
		"Thread 0 startet.", "Thread 1 startet.", "Thread 2 startet.",
		"Thread 0 beendet.", "Thread 1 beendet.", "Thread 2 beendet.",
	} {
		assert.Contains(t, output, line)
	}
	assert.Equal(t, 6, strings.Count(output, "\n"))
}

func TestCompute_Report(t *testing.T) {
	var testCases = []struct {
		description string
		iterations  int
		checkpoint  int
		markers     []string
	}{
		{
			description: "marker every checkpoint",
			iterations:  10,
			checkpoint:  3,
			markers:     []string{"Fortschritt: 3/10", "Fortschritt: 6/10", "Fortschritt: 9/10"},
		},
		{
			description: "checkpoint equals iterations",
			iterations:  5,
			checkpoint:  5,
			markers:     []string{"Fortschritt: 5/5"},
		},
		{
			description: "no checkpoint",
			iterations:  5,
		},
	}
	for _, testCase := range testCases {
		task := &Compute{ProcessID: 1, Iterations: testCase.iterations, Checkpoint: testCase.checkpoint}
		report := task.Report(2)
		assert.True(t, strings.HasPrefix(report, "Prozess 1, Thread 2:"), testCase.description)
		assert.Equal(t, len(testCase.markers), strings.Count(report, "Fortschritt:"), testCase.description)
		for _, marker := range testCase.markers {
			assert.Contains(t, report, marker, testCase.description)
		}
		assert.Contains(t, report, "Ergebnis: ", testCase.description)
	}
}

func TestDetach_Compute(t *testing.T) {
	ctx, tracker := progress.WithNewTracker(context.Background(), 0, nil)
	channel := &memoryChannel{}
	task := &Compute{ProcessID: 0, Iterations: 1000, Checkpoint: 100, Channel: channel}
	require.NoError(t, Detach(ctx, 0, task))

	assert.Eventually(t, func() bool {
		return tracker.Snapshot().Reports == 1 && tracker.Snapshot().Done()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 10, strings.Count(channel.Text(), "Fortschritt:"))
}

func TestDetach_WriteFailure(t *testing.T) {
	ctx, tracker := progress.WithNewTracker(context.Background(), 0, nil)
	channel := &memoryChannel{err: errors.New(errors.ErrSharedResourceUnavailable, "closed")}
	require.NoError(t, Detach(ctx, 0, &Compute{Iterations: 10, Channel: channel}))

	assert.Eventually(t, func() bool {
		return tracker.Snapshot().Done()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, tracker.Snapshot().Reports)
}
