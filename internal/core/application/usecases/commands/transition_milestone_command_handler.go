package commands

import (
	"context"
	"fmt"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/core/ports"
	"exportflow/internal/pkg/errs"

	"go.uber.org/zap"
)

// TransitionResult is the outcome of a transition.
type TransitionResult struct {
	Milestone *milestone.Milestone
	// AutoAdvanced is the milestone started by the system after a completion,
	// nil when none was.
	AutoAdvanced *milestone.Milestone
	Entries      []milestone.LogEntry
}

// TransitionMilestoneCommandHandler changes a milestone's status and, after
// a completion, starts the next waiting milestone of the order.
//
// Auto-advance runs as the system actor through the same checks as a user
// transition. When the dependency gate refuses it nothing advances and the
// skip is logged; the requested transition still succeeds.
type TransitionMilestoneCommandHandler struct {
	uowFactory   MilestoneUoWFactory
	evidence     ports.EvidenceInventory
	catalog      *catalog.Catalog
	transitioner services.Transitioner
	clock        ports.Clock
	logger       *zap.Logger
}

// NewTransitionMilestoneCommandHandler creates a handler for status changes.
func NewTransitionMilestoneCommandHandler(
	uowFactory MilestoneUoWFactory,
	evidence ports.EvidenceInventory,
	c *catalog.Catalog,
	clock ports.Clock,
	logger *zap.Logger,
) TransitionMilestoneCommandHandler {
	return TransitionMilestoneCommandHandler{
		uowFactory:   uowFactory,
		evidence:     evidence,
		catalog:      c,
		transitioner: services.NewTransitioner(),
		clock:        clock,
		logger:       logger,
	}
}

// Handle applies the transition in one transaction together with its audit
// entries.
//
// Returns:
//   - TransitionResult: the changed milestone, the auto-advanced one and the entries
//   - error: VersionIsInvalidError when ExpectedVersion is stale, or any
//     error of services.Transitioner
func (h *TransitionMilestoneCommandHandler) Handle(ctx context.Context, cmd TransitionMilestoneCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	milestones := uow.MilestoneRepository()

	m, err := milestones.Get(ctx, cmd.MilestoneID())
	if err != nil {
		return TransitionResult{}, err
	}

	if v := cmd.ExpectedVersion(); v != nil && *v != m.Version() {
		return TransitionResult{}, errs.NewVersionIsInvalidErrorWithCause("milestone version",
			fmt.Errorf("expected %d, stored %d", *v, m.Version()))
	}

	all, err := milestones.ListByOrder(ctx, m.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}
	m = sameMilestone(all, m)

	var attachments []milestone.Attachment
	if cmd.Target() == milestone.Done {
		if attachments, err = h.evidence.List(ctx, m); err != nil {
			return TransitionResult{}, err
		}
	}

	now := h.clock.Now()
	entry, err := h.transitioner.Transition(services.TransitionInput{
		Milestone:    m,
		All:          all,
		Target:       cmd.Target(),
		Note:         cmd.Note(),
		Actor:        cmd.Actor(),
		Capability:   cmd.Capability(),
		Attachments:  attachments,
		Requirements: h.catalog.RequiredDocuments(m.Step()),
		Now:          now,
	})
	if err != nil {
		return TransitionResult{}, err
	}

	if err = milestones.Update(ctx, m); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{Milestone: m, Entries: []milestone.LogEntry{entry}}

	if cmd.Target() == milestone.Done {
		next, nextEntry, skipped := h.autoAdvance(m, all, now)
		if skipped == nil && next != nil {
			if err = milestones.Update(ctx, next); err != nil {
				return TransitionResult{}, err
			}
			result.AutoAdvanced = next
			result.Entries = append(result.Entries, nextEntry)
		}
	}

	if err = uow.MilestoneLogRepository().Append(ctx, result.Entries...); err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return result, nil
}

// autoAdvance starts the next waiting milestone after done was completed.
func (h *TransitionMilestoneCommandHandler) autoAdvance(
	done *milestone.Milestone,
	all []*milestone.Milestone,
	now time.Time,
) (*milestone.Milestone, milestone.LogEntry, error) {
	next := services.NextToAdvance(all, h.catalog.Position)
	if next == nil {
		return nil, milestone.LogEntry{}, nil
	}

	entry, err := h.transitioner.Transition(services.TransitionInput{
		Milestone:  next,
		All:        all,
		Target:     milestone.InProgress,
		Note:       fmt.Sprintf("started after %s was completed", done.Step()),
		Actor:      kernel.SystemActor(),
		Capability: kernel.SystemCapability(),
		Action:     milestone.ActionAutoAdvanced,
		Now:        now,
	})
	if err != nil {
		h.logger.Info("auto-advance skipped",
			zap.String("order_id", done.OrderID().String()),
			zap.String("completed", done.Step().String()),
			zap.String("candidate", next.Step().String()),
			zap.Error(err),
		)
		return nil, milestone.LogEntry{}, err
	}

	h.logger.Info("milestone auto-advanced",
		zap.String("order_id", done.OrderID().String()),
		zap.String("completed", done.Step().String()),
		zap.String("started", next.Step().String()),
	)
	return next, entry, nil
}

// sameMilestone returns the element of all with m's identifier, so that the
// gates and the update act on one instance.
func sameMilestone(all []*milestone.Milestone, m *milestone.Milestone) *milestone.Milestone {
	for _, candidate := range all {
		if candidate.ID().IsEqual(m.ID()) {
			return candidate
		}
	}
	return m
}
