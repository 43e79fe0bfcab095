// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"exportflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// MilestoneRepoFactory provides access to milestone repository within a transaction.
	MilestoneRepoFactory interface {
		MilestoneRepository() ports.MilestoneRepository
	}

	// DelayRequestRepoFactory provides access to delay request repository within a transaction.
	DelayRequestRepoFactory interface {
		DelayRequestRepository() ports.DelayRequestRepository
	}

	// MilestoneLogRepoFactory provides access to the audit log within a transaction.
	MilestoneLogRepoFactory interface {
		MilestoneLogRepository() ports.MilestoneLogRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// MilestoneUoW manages transactions that touch milestones and the audit
	// log but not orders.
	MilestoneUoW interface {
		TxManager
		MilestoneRepoFactory
		MilestoneLogRepoFactory
	}

	// MilestoneUoWFactory creates new milestone unit of work instances.
	MilestoneUoWFactory interface {
		Create() MilestoneUoW
	}

	// UoW manages transactions across orders, milestones, delay requests and
	// the audit log.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   milestones, err := uow.MilestoneRepository().ListByOrder(ctx, orderID)
	//   // ... perform operations
	//   err = uow.MilestoneLogRepository().Append(ctx, entry)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		MilestoneRepoFactory
		DelayRequestRepoFactory
		MilestoneLogRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
