package http_test

import (
	"context"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockActivateOrderHandler struct{ mock.Mock }

func (m *MockActivateOrderHandler) Handle(ctx context.Context, cmd commands.ActivateOrderCommand) ([]*milestone.Milestone, error) {
	args := m.Called(ctx, cmd)
	ms, _ := args.Get(0).([]*milestone.Milestone)
	return ms, args.Error(1)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionMilestoneCommand) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	r, _ := args.Get(0).(commands.TransitionResult)
	return r, args.Error(1)
}

type MockSubmitDelayHandler struct{ mock.Mock }

func (m *MockSubmitDelayHandler) Handle(ctx context.Context, cmd commands.SubmitDelayRequestCommand) (*delay.Request, error) {
	args := m.Called(ctx, cmd)
	r, _ := args.Get(0).(*delay.Request)
	return r, args.Error(1)
}

type MockApproveDelayHandler struct{ mock.Mock }

func (m *MockApproveDelayHandler) Handle(ctx context.Context, cmd commands.ApproveDelayRequestCommand) (commands.DelayDecision, error) {
	args := m.Called(ctx, cmd)
	d, _ := args.Get(0).(commands.DelayDecision)
	return d, args.Error(1)
}

type MockRejectDelayHandler struct{ mock.Mock }

func (m *MockRejectDelayHandler) Handle(ctx context.Context, cmd commands.RejectDelayRequestCommand) (commands.DelayDecision, error) {
	args := m.Called(ctx, cmd)
	d, _ := args.Get(0).(commands.DelayDecision)
	return d, args.Error(1)
}

type MockGetOrderMilestonesHandler struct{ mock.Mock }

func (m *MockGetOrderMilestonesHandler) Handle(ctx context.Context, q queries.GetOrderMilestonesQuery) (queries.GetOrderMilestonesQueryResponse, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).(queries.GetOrderMilestonesQueryResponse)
	return r, args.Error(1)
}

type MockGetMilestoneLogHandler struct{ mock.Mock }

func (m *MockGetMilestoneLogHandler) Handle(ctx context.Context, q queries.GetMilestoneLogQuery) ([]queries.LogEntryView, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).([]queries.LogEntryView)
	return r, args.Error(1)
}

type MockGetDelayRequestsHandler struct{ mock.Mock }

func (m *MockGetDelayRequestsHandler) Handle(ctx context.Context, q queries.GetDelayRequestsQuery) ([]queries.DelayRequestView, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).([]queries.DelayRequestView)
	return r, args.Error(1)
}

type MockPreviewHandler struct{ mock.Mock }

func (m *MockPreviewHandler) Handle(q queries.PreviewScheduleQuery) ([]queries.ScheduleLine, error) {
	args := m.Called(q)
	r, _ := args.Get(0).([]queries.ScheduleLine)
	return r, args.Error(1)
}
