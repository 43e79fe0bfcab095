// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work wraps one database transaction shared by the
// order, milestone, delay request and audit log repositories.
//
// Repositories report every aggregate they write to the unit of work. Audit
// log entries among them are handed to the EventPublisher once the
// transaction commits; a rollback drops them.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.MilestoneRepository().Update(ctx, m); err != nil {
//	    return err
//	}
//	if err := uow.MilestoneLogRepository().Append(ctx, entry); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance holds its own transaction; goroutines must not
// share one.
package postgres

import (
	"context"

	"exportflow/internal/adapters/out/postgres/delayrepo"
	"exportflow/internal/adapters/out/postgres/milestonelogrepo"
	"exportflow/internal/adapters/out/postgres/milestonerepo"
	"exportflow/internal/adapters/out/postgres/orderrepo"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool. Each Create call returns a fresh instance with its own transaction
// state and tracking list.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Parameters:
//   - db: connection pool used for every transaction
//   - publisher: receives committed audit entries; nil disables publishing
//   - logger: reports publish failures; nil means zap.NewNop()
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, rabbitPublisher, logger)
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *zap.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Create produces a new UnitOfWork instance.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin on an instance with an open
// transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes the transaction's changes permanent and then publishes the
// audit entries appended inside it. A publish failure is logged and does not
// fail the commit: the entries are already stored in the audit log.
//
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	entries := uow.trackedLogEntries()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if err != nil {
		return err
	}

	uow.publish(ctx, entries)
	return nil
}

// Rollback discards the transaction's changes and the tracked aggregates.
//
// Returns gorm.ErrInvalidTransaction when no transaction is open, which is
// the case after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository returns an order repository bound to the open transaction,
// or to the pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// MilestoneRepository returns a milestone repository bound to the open transaction.
func (uow *GormUnitOfWork) MilestoneRepository() ports.MilestoneRepository {
	return milestonerepo.NewGormMilestoneRepository(uow.conn(), uow)
}

// DelayRequestRepository returns a delay request repository bound to the open transaction.
func (uow *GormUnitOfWork) DelayRequestRepository() ports.DelayRequestRepository {
	return delayrepo.NewGormDelayRequestRepository(uow.conn(), uow)
}

// MilestoneLogRepository returns an audit log repository bound to the open
// transaction. Entries appended through it are published after Commit.
func (uow *GormUnitOfWork) MilestoneLogRepository() ports.MilestoneLogRepository {
	return milestonelogrepo.NewGormMilestoneLogRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after each successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) trackedLogEntries() []milestone.LogEntry {
	var entries []milestone.LogEntry
	for _, tracked := range uow.trackedAggregates {
		if e, ok := tracked.Aggregate.(milestone.LogEntry); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (uow *GormUnitOfWork) publish(ctx context.Context, entries []milestone.LogEntry) {
	if uow.publisher == nil || len(entries) == 0 {
		return
	}
	if err := uow.publisher.Publish(ctx, entries); err != nil {
		uow.logger.Warn("audit events not published",
			zap.Int("entries", len(entries)),
			zap.Error(err))
	}
}
