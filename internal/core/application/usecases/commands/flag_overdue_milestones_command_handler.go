package commands

import (
	"context"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/ports"
)

// FlagOverdueMilestonesCommandHandler appends OverdueFlagged entries for
// past-due milestones. A milestone is flagged once per due date, so running
// the handler repeatedly adds nothing new. Reminders and escalations are
// driven by other systems from these entries.
type FlagOverdueMilestonesCommandHandler struct {
	uowFactory MilestoneUoWFactory
	clock      ports.Clock
}

func NewFlagOverdueMilestonesCommandHandler(uowFactory MilestoneUoWFactory, clock ports.Clock) FlagOverdueMilestonesCommandHandler {
	return FlagOverdueMilestonesCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the number of milestones flagged by this run.
func (h *FlagOverdueMilestonesCommandHandler) Handle(ctx context.Context, cmd FlagOverdueMilestonesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	logs := uow.MilestoneLogRepository()

	overdue, err := uow.MilestoneRepository().ListOverdue(ctx, cmd.Today())
	if err != nil {
		return 0, err
	}

	now := h.clock.Now()
	entries := make([]milestone.LogEntry, 0, len(overdue))
	for _, m := range overdue {
		if !m.IsOverdue(cmd.Today()) {
			continue
		}

		note := OverdueNote(m)
		flagged, existsErr := logs.Exists(ctx, m.ID(), milestone.ActionOverdueFlagged, note)
		if existsErr != nil {
			return 0, existsErr
		}
		if flagged {
			continue
		}

		id := m.ID()
		entry, entryErr := milestone.NewLogEntry(m.OrderID(), &id, kernel.SystemActorID,
			milestone.ActionOverdueFlagged, note, now)
		if entryErr != nil {
			return 0, entryErr
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return 0, nil
	}

	if err = logs.Append(ctx, entries...); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(entries), nil
}

// OverdueNote is the note of the OverdueFlagged entry for m's current due date.
func OverdueNote(m *milestone.Milestone) string {
	return "overdue since " + kernel.FormatDate(m.DueAt())
}
