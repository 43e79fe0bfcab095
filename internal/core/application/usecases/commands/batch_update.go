package commands

import (
	"context"
	"errors"
	"fmt"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/core/ports"
	"exportflow/internal/pkg/errs"
)

// ErrBatchUpdateFailed is the sentinel wrapped by BatchUpdateError.
var ErrBatchUpdateFailed = errors.New("batch update failed")

// BatchUpdateError reports the milestone a batch stopped at.
//
// Batches run inside the handler's transaction, which is rolled back on
// failure, so Committed is 0. Updates carry absolute dates, so the whole
// batch can be retried.
type BatchUpdateError struct {
	Index       int
	MilestoneID kernel.UUID
	StepKey     milestone.StepKey
	Committed   int
	Cause       error
}

func (e *BatchUpdateError) Error() string {
	return fmt.Sprintf("%s: update %d (%s %s), %d committed (cause: %v)",
		ErrBatchUpdateFailed, e.Index, e.StepKey, e.MilestoneID, e.Committed, e.Cause)
}

// Unwrap exposes both the sentinel and the cause, so callers can match
// errs.ErrVersionIsInvalid through a failed batch.
func (e *BatchUpdateError) Unwrap() []error {
	return []error{ErrBatchUpdateFailed, e.Cause}
}

// applyDateUpdates reschedules and stores every milestone named in updates.
// It returns the updated milestones in update order.
func applyDateUpdates(
	ctx context.Context,
	repo ports.MilestoneRepository,
	all []*milestone.Milestone,
	updates []services.DateUpdate,
) ([]*milestone.Milestone, error) {
	byID := make(map[kernel.UUID]*milestone.Milestone, len(all))
	for _, m := range all {
		byID[m.ID()] = m
	}

	updated := make([]*milestone.Milestone, 0, len(updates))
	for i, u := range updates {
		fail := func(err error) error {
			return &BatchUpdateError{Index: i, MilestoneID: u.MilestoneID, StepKey: u.Step, Cause: err}
		}

		m, ok := byID[u.MilestoneID]
		if !ok {
			return nil, fail(errs.NewObjectNotFoundError("milestone", u.MilestoneID.String()))
		}
		if err := m.Reschedule(u.PlannedAt, u.DueAt); err != nil {
			return nil, fail(err)
		}
		if err := repo.Update(ctx, m); err != nil {
			return nil, fail(err)
		}
		updated = append(updated, m)
	}
	return updated, nil
}
