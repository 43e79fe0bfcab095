package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/ports"
	"exportflow/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOverdueFlagger struct {
	mock.Mock
}

func (m *MockOverdueFlagger) Handle(ctx context.Context, cmd commands.FlagOverdueMilestonesCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type countingRecorder struct {
	total int
}

func (r *countingRecorder) AddOverdueFlagged(n int) {
	r.total += n
}

var clock = ports.ClockFunc(func() time.Time {
	return time.Date(2024, 2, 14, 23, 59, 0, 0, time.UTC)
})

func TestOverdueScanJob_RunOnce(t *testing.T) {
	t.Run("flags as of the current date", func(t *testing.T) {
		handler := &MockOverdueFlagger{}
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.FlagOverdueMilestonesCommand) bool {
			return cmd.Today().Equal(kernel.NewDate(2024, 2, 14))
		})).Return(3, nil).Once()
		recorder := &countingRecorder{}
		job := jobs.NewOverdueScanJob(handler, clock, "", recorder, zap.NewNop())

		flagged, err := job.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, flagged)
		assert.Equal(t, 3, recorder.total)
		handler.AssertExpectations(t)
	})

	t.Run("failure records nothing", func(t *testing.T) {
		handler := &MockOverdueFlagger{}
		handler.On("Handle", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
		recorder := &countingRecorder{}
		job := jobs.NewOverdueScanJob(handler, clock, "", recorder, zap.NewNop())

		_, err := job.RunOnce(context.Background())

		require.EqualError(t, err, "db down")
		assert.Zero(t, recorder.total)
	})

	t.Run("recorder is optional", func(t *testing.T) {
		handler := &MockOverdueFlagger{}
		handler.On("Handle", mock.Anything, mock.Anything).Return(1, nil).Once()
		job := jobs.NewOverdueScanJob(handler, clock, "", nil, zap.NewNop())

		flagged, err := job.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, flagged)
	})
}

func TestOverdueScanJob_Start(t *testing.T) {
	t.Run("invalid schedule is rejected", func(t *testing.T) {
		job := jobs.NewOverdueScanJob(&MockOverdueFlagger{}, clock, "every day", nil, zap.NewNop())

		require.Error(t, job.Start())
	})

	t.Run("runs on schedule", func(t *testing.T) {
		handler := &MockOverdueFlagger{}
		ran := make(chan struct{}, 10)
		handler.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { ran <- struct{}{} }).
			Return(0, nil)
		job := jobs.NewOverdueScanJob(handler, clock, "* * * * * *", nil, zap.NewNop())

		require.NoError(t, job.Start())
		defer job.Stop()

		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatal("scan did not run")
		}
	})
}

type fakeJob struct {
	name     string
	startErr error
	events   *[]string
}

func (j fakeJob) Start() error {
	*j.events = append(*j.events, "start "+j.name)
	return j.startErr
}

func (j fakeJob) Stop() {
	*j.events = append(*j.events, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager(fakeJob{name: "a", events: &events}, fakeJob{name: "b", events: &events})

		require.NoError(t, manager.StartAll())
		manager.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
	})

	t.Run("failed start stops the jobs already running", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager(
			fakeJob{name: "a", events: &events},
			fakeJob{name: "b", events: &events, startErr: errors.New("bad schedule")},
		)

		err := manager.StartAll()

		require.ErrorContains(t, err, "bad schedule")
		assert.Equal(t, []string{"start a", "start b", "stop a"}, events)
	})
}
