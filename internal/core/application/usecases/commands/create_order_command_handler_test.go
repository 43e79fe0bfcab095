package commands_test

import (
	"errors"
	"testing"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	ship := shipDate
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "PO-4471", order.FOB, order.Bulk,
		order.StandardPackaging, true, &ship, nil)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	numbers := new(MockOrderNumberAllocator)
	numbers.On("Next", ctx, createdAt).Return("EX-20240102-0007", nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, numbers, fixedClock(createdAt))
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "EX-20240102-0007", created.Number())
	assert.Equal(t, order.Draft, created.Status())
	assert.Equal(t, createdAt, created.CreatedAt())
	assert.True(t, created.ID().IsEqual(cmd.OrderID()))
	numbers.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	h := commands.NewCreateOrderCommandHandler(new(MockOrderUoWFactory), new(MockOrderNumberAllocator), fixedClock(createdAt))

	_, err := h.Handle(ctx, commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_AllocatorError(t *testing.T) {
	ctx := t.Context()
	numbers := new(MockOrderNumberAllocator)
	numbers.On("Next", ctx, createdAt).Return("", errors.New("redis down")).Once()
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, numbers, fixedClock(createdAt))
	_, err := h.Handle(ctx, newCreateOrderCommand(t))

	require.EqualError(t, err, "redis down")
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	numbers := new(MockOrderNumberAllocator)
	numbers.On("Next", ctx, createdAt).Return("EX-20240102-0001", nil).Once()

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, numbers, fixedClock(createdAt))
	_, err := h.Handle(ctx, newCreateOrderCommand(t))

	require.Error(t, err)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	numbers := new(MockOrderNumberAllocator)
	numbers.On("Next", ctx, createdAt).Return("EX-20240102-0001", nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, numbers, fixedClock(createdAt))
	_, err := h.Handle(ctx, newCreateOrderCommand(t))

	require.EqualError(t, err, "add error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	numbers := new(MockOrderNumberAllocator)
	numbers.On("Next", ctx, createdAt).Return("EX-20240102-0001", nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, numbers, fixedClock(createdAt))
	_, err := h.Handle(ctx, newCreateOrderCommand(t))

	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
}
