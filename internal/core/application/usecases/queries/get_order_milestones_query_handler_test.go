package queries_test

import (
	"context"
	"testing"
	"time"

	"exportflow/internal/adapters/out/postgres"
	"exportflow/internal/adapters/out/postgres/milestonerepo"
	"exportflow/internal/adapters/out/postgres/orderrepo"
	"exportflow/internal/adapters/out/postgres/pgtest"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type GetOrderMilestonesQueryHandlerTestSuite struct {
	suite.Suite
	database *pgtest.Database
	handler  queries.GetOrderMilestonesQueryHandler
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database

	suite.Require().NoError(postgres.Migrate(database.DB))
	suite.handler = queries.NewGetOrderMilestonesQueryHandler(database.DB)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) SetupTest() {
	err := suite.database.DB.Exec("TRUNCATE TABLE orders, milestones").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) handle(orderID kernel.UUID, today time.Time) (queries.GetOrderMilestonesQueryResponse, error) {
	query, err := queries.NewGetOrderMilestonesQuery(orderID, today)
	suite.Require().NoError(err)
	return suite.handler.Handle(context.Background(), query)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) TestHandle_ActiveOrder_ReturnsOrderedSet() {
	ctx := context.Background()
	o, milestones, err := seedActiveOrder(ctx, suite.database.DB, "EX-20240102-0001")
	suite.Require().NoError(err)

	po := findStep(milestones, milestone.POConfirmed)
	_, err = po.ChangeStatus(milestone.InProgress, "", createdAt)
	suite.Require().NoError(err)
	_, err = po.ChangeStatus(milestone.Done, "signed PO received", createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(milestonerepo.NewGormMilestoneRepository(suite.database.DB, noopTracker{}).Update(ctx, po))

	result, err := suite.handle(o.ID(), time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))

	suite.Require().NoError(err)
	suite.Equal("EX-20240102-0001", result.Order.Number)
	suite.Equal("FOB", result.Order.TradeTerm)
	suite.Equal(order.Active.String(), result.Order.Status)
	suite.Require().NotNil(result.Order.ShipDate)
	suite.Equal(kernel.NewDate(2024, 3, 1), *result.Order.ShipDate)

	suite.Require().Len(result.Milestones, 17)
	first := result.Milestones[0]
	suite.Equal("po_confirmed", first.Step)
	suite.Equal("done", first.Status)
	suite.Equal(1, first.Version)
	suite.False(first.Overdue, "done milestones are never overdue")
	suite.Contains(first.Notes, "signed PO received")

	suite.Equal("finance_approved", result.Milestones[1].Step)
	suite.True(result.Milestones[1].Overdue)
	suite.Equal([]string{"po_confirmed"}, result.Milestones[1].Predecessors)
	suite.Equal("tech_pack_confirmed", result.Milestones[2].Step)
	suite.True(result.Milestones[2].Overdue)
	suite.Equal("fabric_ordered", result.Milestones[3].Step)
	suite.False(result.Milestones[3].Overdue)

	suite.Equal("materials_received", result.Milestones[6].Step)
	suite.Equal("pp_sample_approved", result.Milestones[7].Step, "equal due dates fall back to execution order")
	suite.Equal("payment_received", result.Milestones[16].Step)
	suite.Equal(kernel.NewDate(2024, 3, 15), result.Milestones[16].DueAt)
	suite.Equal(kernel.NewDate(2024, 3, 14), result.Milestones[16].PlannedAt)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) TestHandle_DraftOrder_HasNoMilestones() {
	ctx := context.Background()
	o, err := order.NewOrder(kernel.NewUUID(), "EX-20240102-0002", "PO-2", bulkFOBAttributes())
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.database.DB, noopTracker{}).Add(ctx, o))

	result, err := suite.handle(o.ID(), time.Now())

	suite.Require().NoError(err)
	suite.Equal(order.Draft.String(), result.Order.Status)
	suite.NotNil(result.Milestones)
	suite.Empty(result.Milestones)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) TestHandle_UnknownOrder_ReturnsNotFound() {
	_, err := suite.handle(kernel.NewUUID(), time.Now())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderMilestonesQueryHandlerTestSuite) TestHandle_NotConstructed() {
	_, err := suite.handler.Handle(context.Background(), queries.GetOrderMilestonesQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetOrderMilestonesQueryIsNotConstructed)
}

func TestGetOrderMilestonesQueryHandler(t *testing.T) {
	suite.Run(t, new(GetOrderMilestonesQueryHandlerTestSuite))
}
