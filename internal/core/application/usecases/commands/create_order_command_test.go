package commands_test

import (
	"testing"
	"time"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	ship := time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC)

	cmd, err := commands.NewCreateOrderCommand(id, " PO-4471 ", order.FOB, order.Bulk,
		order.CustomPackaging, true, &ship, nil)

	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "PO-4471", cmd.CustomerRef())

	attrs := cmd.Attributes(createdAt)
	assert.Equal(t, order.CustomPackaging, attrs.Packaging)
	assert.True(t, attrs.RequiresPPSample)
	assert.Equal(t, createdAt, attrs.CreatedAt)
	require.NotNil(t, attrs.ShipDate)
	assert.Equal(t, kernel.NewDate(2024, 3, 1), *attrs.ShipDate)
	assert.Nil(t, attrs.WarehouseDate)
}

func TestNewCreateOrderCommand_AnchorIsOptional(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "PO-1", order.DDP, order.Sample,
		order.StandardPackaging, false, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, cmd.Attributes(createdAt).WarehouseDate)
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, "PO-1", order.FOB, order.Bulk,
		order.StandardPackaging, false, nil, nil)

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_EmptyCustomerRef(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "  ", order.FOB, order.Bulk,
		order.StandardPackaging, false, nil, nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_InvalidEnums(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "PO-1", order.UnknownTradeTerm, order.UnknownCategory,
		order.UnknownPackaging, false, nil, nil)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
