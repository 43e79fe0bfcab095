package commands_test

import (
	"context"
	"time"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockMilestoneRepository struct{ mock.Mock }

func (m *MockMilestoneRepository) AddAll(ctx context.Context, ms []*milestone.Milestone) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMilestoneRepository) Update(ctx context.Context, ms *milestone.Milestone) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMilestoneRepository) Get(ctx context.Context, id kernel.UUID) (*milestone.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*milestone.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*milestone.Milestone, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*milestone.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) ListOverdue(ctx context.Context, today time.Time) ([]*milestone.Milestone, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*milestone.Milestone), args.Error(1)
}

type MockDelayRequestRepository struct{ mock.Mock }

func (m *MockDelayRequestRepository) Add(ctx context.Context, r *delay.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDelayRequestRepository) Update(ctx context.Context, r *delay.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDelayRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delay.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delay.Request), args.Error(1)
}

func (m *MockDelayRequestRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delay.Request, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delay.Request), args.Error(1)
}

type MockMilestoneLogRepository struct{ mock.Mock }

func (m *MockMilestoneLogRepository) Append(ctx context.Context, entries ...milestone.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockMilestoneLogRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]milestone.LogEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]milestone.LogEntry), args.Error(1)
}

func (m *MockMilestoneLogRepository) ListByMilestone(ctx context.Context, id kernel.UUID) ([]milestone.LogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]milestone.LogEntry), args.Error(1)
}

func (m *MockMilestoneLogRepository) Exists(
	ctx context.Context,
	id kernel.UUID,
	action milestone.Action,
	note string,
) (bool, error) {
	args := m.Called(ctx, id, action, note)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) MilestoneRepository() ports.MilestoneRepository {
	args := m.Called()
	return args.Get(0).(ports.MilestoneRepository)
}

func (m *MockUoW) DelayRequestRepository() ports.DelayRequestRepository {
	args := m.Called()
	return args.Get(0).(ports.DelayRequestRepository)
}

func (m *MockUoW) MilestoneLogRepository() ports.MilestoneLogRepository {
	args := m.Called()
	return args.Get(0).(ports.MilestoneLogRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMilestoneUoWFactory struct{ mock.Mock }

func (m *MockMilestoneUoWFactory) Create() commands.MilestoneUoW {
	args := m.Called()
	return args.Get(0).(commands.MilestoneUoW)
}

type MockOrderNumberAllocator struct{ mock.Mock }

func (m *MockOrderNumberAllocator) Next(ctx context.Context, createdAt time.Time) (string, error) {
	args := m.Called(ctx, createdAt)
	return args.String(0), args.Error(1)
}

type MockEvidenceInventory struct{ mock.Mock }

func (m *MockEvidenceInventory) List(ctx context.Context, ms *milestone.Milestone) ([]milestone.Attachment, error) {
	args := m.Called(ctx, ms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]milestone.Attachment), args.Error(1)
}

func fixedClock(t time.Time) ports.Clock {
	return ports.ClockFunc(func() time.Time { return t })
}
