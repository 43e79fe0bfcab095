package milestonelogrepo_test

import (
	"context"
	"testing"
	"time"

	"exportflow/internal/adapters/out/postgres/milestonelogrepo"
	"exportflow/internal/adapters/out/postgres/pgtest"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type MilestoneLogRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *milestonelogrepo.GormMilestoneLogRepository
	tracker    *MockAggregateTracker
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database

	suite.Require().NoError(database.DB.AutoMigrate(&milestonelogrepo.LogEntryDTO{}))
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.DB.Exec("TRUNCATE TABLE milestone_log").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = milestonelogrepo.NewGormMilestoneLogRepository(suite.database.DB, suite.tracker)
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) entry(
	orderID kernel.UUID,
	milestoneID *kernel.UUID,
	action milestone.Action,
	note string,
	at time.Time,
) milestone.LogEntry {
	var from, to *milestone.Status
	if action == milestone.ActionStatusChanged {
		f, t := milestone.NotStarted, milestone.InProgress
		from, to = &f, &t
	}
	e, err := milestone.RestoreLogEntry(kernel.NewUUID(), orderID, milestoneID, "user-merchandiser",
		action, from, to, note, at)
	suite.Require().NoError(err)
	return e
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) TestAppendAndListByOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	milestoneID := kernel.NewUUID()
	later := suite.entry(orderID, nil, milestone.ActionRecalculated, "ship date moved to 2024-03-08",
		time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC))
	earlier := suite.entry(orderID, &milestoneID, milestone.ActionStatusChanged, "",
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC))
	foreign := suite.entry(kernel.NewUUID(), nil, milestone.ActionRecalculated, "",
		time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))

	suite.Require().NoError(suite.repository.Append(ctx, later, earlier, foreign))

	entries, err := suite.repository.ListByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	suite.Equal(earlier.ID(), entries[0].ID())
	suite.Equal(milestone.ActionStatusChanged, entries[0].Action())
	suite.Require().NotNil(entries[0].MilestoneID())
	suite.Equal(milestoneID, *entries[0].MilestoneID())
	suite.Require().NotNil(entries[0].FromStatus())
	suite.Equal(milestone.NotStarted, *entries[0].FromStatus())
	suite.Equal(milestone.InProgress, *entries[0].ToStatus())

	suite.Equal(later.ID(), entries[1].ID())
	suite.Nil(entries[1].MilestoneID())
	suite.Nil(entries[1].FromStatus())
	suite.Equal("ship date moved to 2024-03-08", entries[1].Note())

	suite.tracker.AssertNumberOfCalls(suite.T(), "TrackAggregate", 3)
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) TestAppendNothing() {
	suite.Require().NoError(suite.repository.Append(context.Background()))
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) TestListByMilestone() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	first, second := kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(suite.repository.Append(ctx,
		suite.entry(orderID, &first, milestone.ActionStatusChanged, "", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)),
		suite.entry(orderID, &second, milestone.ActionAutoAdvanced, "started after po was completed",
			time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)),
		suite.entry(orderID, &first, milestone.ActionOverdueFlagged, "overdue since 2024-01-03",
			time.Date(2024, 1, 4, 0, 5, 0, 0, time.UTC)),
	))

	entries, err := suite.repository.ListByMilestone(ctx, first)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(milestone.ActionStatusChanged, entries[0].Action())
	suite.Equal(milestone.ActionOverdueFlagged, entries[1].Action())
}

func (suite *MilestoneLogRepositoryIntegrationTestSuite) TestExists() {
	ctx := context.Background()
	milestoneID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Append(ctx,
		suite.entry(kernel.NewUUID(), &milestoneID, milestone.ActionOverdueFlagged, "overdue since 2024-01-03",
			time.Date(2024, 1, 4, 0, 5, 0, 0, time.UTC)),
	))

	found, err := suite.repository.Exists(ctx, milestoneID, milestone.ActionOverdueFlagged, "overdue since 2024-01-03")
	suite.Require().NoError(err)
	suite.True(found)

	found, err = suite.repository.Exists(ctx, milestoneID, milestone.ActionOverdueFlagged, "overdue since 2024-01-08")
	suite.Require().NoError(err)
	suite.False(found)

	found, err = suite.repository.Exists(ctx, kernel.NewUUID(), milestone.ActionOverdueFlagged, "overdue since 2024-01-03")
	suite.Require().NoError(err)
	suite.False(found)
}

func TestMilestoneLogRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(MilestoneLogRepositoryIntegrationTestSuite))
}
