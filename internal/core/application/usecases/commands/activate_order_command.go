package commands

import (
	"errors"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/guard"
)

var ErrActivateOrderCommandIsNotConstructed = errors.New(
	"ActivateOrderCommand must be created via NewActivateOrderCommand constructor",
)

// ActivateOrderCommand moves a draft order to Active and generates its
// complete milestone set.
type ActivateOrderCommand struct {
	orderID    kernel.UUID
	actor      kernel.Actor
	capability kernel.Capability

	guard guard.ConstructorGuard
}

// NewActivateOrderCommand creates the command. Only merchandisers and
// administrators may activate orders; the handler checks it.
func NewActivateOrderCommand(orderID kernel.UUID, actor kernel.Actor, capability kernel.Capability) (ActivateOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ActivateOrderCommand{}, err
	}

	return ActivateOrderCommand{
		orderID:    orderID,
		actor:      actor,
		capability: capability,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ActivateOrderCommand) Validate() error {
	return c.guard.Validate(ErrActivateOrderCommandIsNotConstructed)
}

func (c ActivateOrderCommand) OrderID() kernel.UUID          { return c.orderID }
func (c ActivateOrderCommand) Actor() kernel.Actor           { return c.actor }
func (c ActivateOrderCommand) Capability() kernel.Capability { return c.capability }
