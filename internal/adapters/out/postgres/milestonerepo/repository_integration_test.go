package milestonerepo_test

import (
	"context"
	"testing"
	"time"

	"exportflow/internal/adapters/out/postgres/milestonerepo"
	"exportflow/internal/adapters/out/postgres/pgtest"
	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type MilestoneRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *milestonerepo.GormMilestoneRepository
	tracker    *MockAggregateTracker
}

func (suite *MilestoneRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database

	suite.Require().NoError(database.DB.AutoMigrate(&milestonerepo.MilestoneDTO{}))
}

func (suite *MilestoneRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.DB.Exec("TRUNCATE TABLE milestones").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = milestonerepo.NewGormMilestoneRepository(suite.database.DB, suite.tracker)
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

// milestoneSet generates the bulk FOB milestone set shipping on 2024-03-01.
func (suite *MilestoneRepositoryIntegrationTestSuite) milestoneSet() []*milestone.Milestone {
	ship := kernel.NewDate(2024, 3, 1)
	attrs := order.Attributes{
		TradeTerm:        order.FOB,
		Category:         order.Bulk,
		Packaging:        order.StandardPackaging,
		RequiresPPSample: true,
		CreatedAt:        time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
		ShipDate:         &ship,
	}
	templates := catalog.Default().TemplatesFor(attrs)
	schedule, err := services.NewScheduleCalculator().Compute(attrs, templates)
	suite.Require().NoError(err)

	orderID := kernel.NewUUID()
	out := make([]*milestone.Milestone, 0, len(templates))
	for _, t := range templates {
		m, newErr := milestone.NewMilestone(kernel.NewUUID(), orderID, t.Definition,
			schedule[t.Step].PlannedAt, schedule[t.Step].DueAt)
		suite.Require().NoError(newErr)
		out = append(out, m)
	}
	return out
}

func find(all []*milestone.Milestone, step milestone.StepKey) *milestone.Milestone {
	for _, m := range all {
		if m.Step() == step {
			return m
		}
	}
	return nil
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestAddAll_ListByOrder_OrdersByDueDate() {
	ctx := context.Background()
	set := suite.milestoneSet()
	suite.Require().NoError(suite.repository.AddAll(ctx, set))

	loaded, err := suite.repository.ListByOrder(ctx, set[0].OrderID())

	suite.Require().NoError(err)
	suite.Require().Len(loaded, 17)
	suite.Equal(milestone.POConfirmed, loaded[0].Step())
	suite.Equal(milestone.PaymentReceived, loaded[16].Step())
	for i := 1; i < len(loaded); i++ {
		suite.False(loaded[i].DueAt().Before(loaded[i-1].DueAt()), "%s before %s", loaded[i].Step(), loaded[i-1].Step())
	}

	materials := slicesIndex(loaded, milestone.MaterialsReceived)
	approved := slicesIndex(loaded, milestone.PPSampleApproved)
	suite.Less(materials, approved, "equal dates fall back to catalog position")

	start := find(loaded, milestone.ProductionStart)
	suite.Equal([]milestone.StepKey{milestone.MaterialsReceived, milestone.PPSampleApproved}, start.Predecessors())
	suite.Equal(kernel.NewDate(2024, 2, 1), start.DueAt())
	suite.Equal(kernel.RoleProduction, start.Role())
	suite.True(start.IsRequired())
	suite.Equal(milestone.NotStarted, start.Status())
	suite.tracker.AssertNumberOfCalls(suite.T(), "TrackAggregate", 17)
}

func slicesIndex(all []*milestone.Milestone, step milestone.StepKey) int {
	for i, m := range all {
		if m.Step() == step {
			return i
		}
	}
	return -1
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestAddAll_SecondSet_IsInvalid() {
	ctx := context.Background()
	set := suite.milestoneSet()
	suite.Require().NoError(suite.repository.AddAll(ctx, set))

	again := make([]*milestone.Milestone, 0, len(set))
	for _, m := range set {
		dup, err := milestone.NewMilestone(kernel.NewUUID(), m.OrderID(), m.Definition(), m.PlannedAt(), m.DueAt())
		suite.Require().NoError(err)
		again = append(again, dup)
	}

	err := suite.repository.AddAll(ctx, again)

	var invalid *errs.ValueIsInvalidError
	suite.Require().ErrorAs(err, &invalid)
	suite.Equal("milestone set", invalid.ParamName)
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestUpdate_StoresStatusNotesAndDates() {
	ctx := context.Background()
	set := suite.milestoneSet()
	suite.Require().NoError(suite.repository.AddAll(ctx, set))

	m := find(set, milestone.FabricOrdered)
	_, err := m.ChangeStatus(milestone.Blocked, "mill closed for holiday", time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Require().NoError(m.Reschedule(kernel.NewDate(2024, 1, 15), kernel.NewDate(2024, 1, 16)))
	suite.Require().NoError(suite.repository.Update(ctx, m))
	suite.Equal(1, m.Version())

	loaded, err := suite.repository.Get(ctx, m.ID())
	suite.Require().NoError(err)
	suite.Equal(milestone.Blocked, loaded.Status())
	suite.Equal("mill closed for holiday", loaded.BlockedReason())
	suite.Equal(kernel.NewDate(2024, 1, 16), loaded.DueAt())
	suite.Equal(kernel.NewDate(2024, 1, 15), loaded.PlannedAt())
	suite.Equal(1, loaded.Version())
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_IsRejected() {
	ctx := context.Background()
	set := suite.milestoneSet()
	suite.Require().NoError(suite.repository.AddAll(ctx, set))
	id := find(set, milestone.POConfirmed).ID()

	first, err := suite.repository.Get(ctx, id)
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, id)
	suite.Require().NoError(err)

	_, err = first.ChangeStatus(milestone.InProgress, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.ChangeStatus(milestone.Blocked, "customer has not signed", time.Now())
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	loaded, err := suite.repository.Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(milestone.InProgress, loaded.Status())
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestUpdate_Unknown_NotFound() {
	set := suite.milestoneSet()

	err := suite.repository.Update(context.Background(), set[0])

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *MilestoneRepositoryIntegrationTestSuite) TestListOverdue_SkipsDoneAndFuture() {
	ctx := context.Background()
	set := suite.milestoneSet()
	po := find(set, milestone.POConfirmed)
	_, err := po.ChangeStatus(milestone.InProgress, "", time.Now())
	suite.Require().NoError(err)
	_, err = po.ChangeStatus(milestone.Done, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddAll(ctx, set))

	overdue, err := suite.repository.ListOverdue(ctx, kernel.NewDate(2024, 1, 8))

	suite.Require().NoError(err)
	suite.Require().Len(overdue, 2)
	suite.Equal(milestone.FinanceApproved, overdue[0].Step())
	suite.Equal(milestone.TechPackConfirmed, overdue[1].Step())
}

func TestMilestoneRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MilestoneRepositoryIntegrationTestSuite))
}
