package services

import (
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
)

// TransitionInput is everything one status change is decided on.
type TransitionInput struct {
	Milestone *milestone.Milestone
	// All is every milestone of the order, used by the dependency gate.
	All    []*milestone.Milestone
	Target milestone.Status
	Note   string

	Actor      kernel.Actor
	Capability kernel.Capability

	// Attachments and Requirements feed the evidence gate when the target is Done.
	Attachments  []milestone.Attachment
	Requirements []string

	// Action is recorded in the log entry. Zero means ActionStatusChanged.
	Action milestone.Action
	Now    time.Time
}

// Transitioner applies one milestone status change.
//
// Checks, in order:
//  1. the actor holds the milestone's role or is an administrator
//  2. entering InProgress: every required predecessor is done
//  3. the move is in the transition table
//  4. entering Done: the required evidence is attached
//
// The milestone is modified only when every check passes.
type Transitioner struct {
	deps     DependencyGate
	evidence EvidenceGate
}

// NewTransitioner creates a Transitioner.
func NewTransitioner() Transitioner {
	return Transitioner{
		deps:     NewDependencyGate(),
		evidence: NewEvidenceGate(),
	}
}

// Transition checks and applies in.Target to in.Milestone.
//
// Returns:
//   - milestone.LogEntry: the audit entry describing the change
//   - error: *AuthorizationError, *DependencyViolationError,
//     *milestone.TransitionNotAllowedError, *EvidenceMissingError or a
//     validation error (blocking without a reason)
//
// Example:
//
//	entry, err := services.NewTransitioner().Transition(services.TransitionInput{
//	    Milestone:    m,
//	    All:          all,
//	    Target:       milestone.Done,
//	    Actor:        actor,
//	    Capability:   capability,
//	    Attachments:  attachments,
//	    Requirements: catalog.Default().RequiredDocuments(m.Step()),
//	    Now:          time.Now(),
//	})
func (t Transitioner) Transition(in TransitionInput) (milestone.LogEntry, error) {
	m := in.Milestone
	if err := m.Validate(); err != nil {
		return milestone.LogEntry{}, err
	}
	if err := in.Actor.Validate(); err != nil {
		return milestone.LogEntry{}, err
	}
	if err := in.Target.Validate(); err != nil {
		return milestone.LogEntry{}, err
	}

	if !in.Capability.CanActAs(in.Actor, m.Role()) {
		return milestone.LogEntry{}, NewAuthorizationError(in.Actor, m.Role(), "change "+string(m.Step()))
	}

	if in.Target == milestone.InProgress {
		if err := t.deps.CanEnterInProgress(m, in.All).Err(m.Step()); err != nil {
			return milestone.LogEntry{}, err
		}
	}

	if !m.Status().CanTransitionTo(in.Target) {
		return milestone.LogEntry{}, milestone.NewTransitionNotAllowedError(m.Status(), in.Target)
	}

	if in.Target == milestone.Done {
		if err := t.evidence.Check(m, in.Requirements, in.Attachments); err != nil {
			return milestone.LogEntry{}, err
		}
	}

	from, err := m.ChangeStatus(in.Target, in.Note, in.Now)
	if err != nil {
		return milestone.LogEntry{}, err
	}

	action := in.Action
	if action == "" {
		action = milestone.ActionStatusChanged
	}
	return milestone.NewStatusChangeEntry(m, in.Actor.ID(), action, from, in.Target, in.Note, in.Now)
}
