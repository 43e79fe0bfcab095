package commands_test

import (
	"errors"
	"testing"
	"time"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewFlagOverdueMilestonesCommand(t *testing.T) {
	t.Run("truncates to the calendar day", func(t *testing.T) {
		cmd, err := commands.NewFlagOverdueMilestonesCommand(now)

		require.NoError(t, err)
		assert.Equal(t, kernel.NewDate(2024, 1, 3), cmd.Today())
	})

	t.Run("requires a day", func(t *testing.T) {
		_, err := commands.NewFlagOverdueMilestonesCommand(time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestFlagOverdueMilestonesCommandHandler_Handle(t *testing.T) {
	today := kernel.NewDate(2024, 1, 8)
	newFixture := func(t *testing.T) (*MockMilestoneUoWFactory, *MockUoW, *MockMilestoneRepository, *MockMilestoneLogRepository, []*milestone.Milestone) {
		t.Helper()
		all := orderMilestones(t, activeOrder(t))
		milestones := new(MockMilestoneRepository)
		logs := new(MockMilestoneLogRepository)
		uow := new(MockUoW)
		uow.On("MilestoneRepository").Return(milestones)
		uow.On("MilestoneLogRepository").Return(logs)
		factory := new(MockMilestoneUoWFactory)
		factory.On("Create").Return(uow)
		return factory, uow, milestones, logs, all
	}

	t.Run("flags each overdue milestone once", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, milestones, logs, all := newFixture(t)
		po := findStep(all, milestone.POConfirmed)
		finance := findStep(all, milestone.FinanceApproved)
		tech := findStep(all, milestone.TechPackConfirmed)

		uow.On("Begin", ctx).Return(nil).Once()
		milestones.On("ListOverdue", ctx, today).Return([]*milestone.Milestone{po, finance, tech}, nil).Once()
		logs.On("Exists", ctx, po.ID(), milestone.ActionOverdueFlagged, "overdue since 2024-01-03").Return(true, nil).Once()
		logs.On("Exists", ctx, finance.ID(), milestone.ActionOverdueFlagged, "overdue since 2024-01-04").Return(false, nil).Once()
		logs.On("Exists", ctx, tech.ID(), milestone.ActionOverdueFlagged, "overdue since 2024-01-05").Return(false, nil).Once()
		var appended []milestone.LogEntry
		logs.On("Append", ctx, mock.AnythingOfType("[]milestone.LogEntry")).
			Run(func(args mock.Arguments) { appended = args.Get(1).([]milestone.LogEntry) }).
			Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewFlagOverdueMilestonesCommandHandler(factory, fixedClock(now))
		cmd, err := commands.NewFlagOverdueMilestonesCommand(today)
		require.NoError(t, err)

		flagged, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 2, flagged)
		require.Len(t, appended, 2)
		for _, e := range appended {
			assert.Equal(t, milestone.ActionOverdueFlagged, e.Action())
			assert.Equal(t, kernel.SystemActorID, e.ActorID())
		}
		assert.True(t, appended[0].MilestoneID().IsEqual(finance.ID()))
		logs.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("nothing new commits nothing", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, milestones, logs, all := newFixture(t)
		done := setStatus(t, all, milestone.POConfirmed, milestone.Done)

		uow.On("Begin", ctx).Return(nil).Once()
		milestones.On("ListOverdue", ctx, today).Return([]*milestone.Milestone{done}, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewFlagOverdueMilestonesCommandHandler(factory, fixedClock(now))
		cmd, _ := commands.NewFlagOverdueMilestonesCommand(today)

		flagged, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Zero(t, flagged)
		logs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, milestones, logs, all := newFixture(t)
		po := findStep(all, milestone.POConfirmed)

		uow.On("Begin", ctx).Return(nil).Once()
		milestones.On("ListOverdue", ctx, today).Return([]*milestone.Milestone{po}, nil).Once()
		logs.On("Exists", ctx, po.ID(), milestone.ActionOverdueFlagged, mock.Anything).
			Return(false, errors.New("connection refused")).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewFlagOverdueMilestonesCommandHandler(factory, fixedClock(now))
		cmd, _ := commands.NewFlagOverdueMilestonesCommand(today)

		_, err := h.Handle(ctx, cmd)

		require.EqualError(t, err, "connection refused")
	})
}
