package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	run  func(ctx context.Context) error
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub" }

func (j *stubJob) Run(ctx context.Context) error {
	if j.run != nil {
		return j.run(ctx)
	}
	return nil
}

func newTestScheduler(jobTimeout time.Duration) *Scheduler {
	return NewScheduler(SchedulerConfig{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		JobTimeout: jobTimeout,
	})
}

func TestScheduler_RegisterAndRunNow(t *testing.T) {
	s := newTestScheduler(0)

	ran := false
	job := &stubJob{name: "noop", run: func(context.Context) error {
		ran = true
		return nil
	}}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "noop")
	require.NoError(t, err)

	assert.True(t, ran)
	assert.True(t, result.Success)
	assert.NoError(t, result.Error)
}

func TestScheduler_RegisterDuplicate(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.Register(&stubJob{name: "dup"}, NewIntervalSchedule(time.Hour)))
	err := s.Register(&stubJob{name: "dup"}, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(0)

	_, err := s.RunNow(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_RunNowPropagatesJobError(t *testing.T) {
	s := newTestScheduler(0)

	boom := errors.New("boom")
	job := &stubJob{name: "failing", run: func(context.Context) error { return boom }}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "failing")
	assert.ErrorIs(t, err, boom)

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, boom)
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	s := newTestScheduler(0)

	job := &stubJob{name: "panicking", run: func(context.Context) error {
		panic("job went sideways")
	}}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "panicking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, err)
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := newTestScheduler(20 * time.Millisecond)

	job := &stubJob{name: "slow", run: func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, context.DeadlineExceeded)
}
