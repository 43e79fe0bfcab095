package milestone

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
)

// Action classifies an audit log entry. The value doubles as the suffix of
// the routing key audit events are published under.
type Action string

const (
	ActionStatusChanged  Action = "status_changed"
	ActionAutoAdvanced   Action = "auto_advanced"
	ActionRecalculated   Action = "recalculated"
	ActionDelayShifted   Action = "delay_shifted"
	ActionDelaySubmitted Action = "delay_submitted"
	ActionDelayRejected  Action = "delay_rejected"
	ActionOverdueFlagged Action = "overdue_flagged"
)

var knownActions = []Action{
	ActionStatusChanged,
	ActionAutoAdvanced,
	ActionRecalculated,
	ActionDelayShifted,
	ActionDelaySubmitted,
	ActionDelayRejected,
	ActionOverdueFlagged,
}

func (a Action) Validate() error {
	if !slices.Contains(knownActions, a) {
		return errs.NewValueIsInvalidErrorWithCause("log action", fmt.Errorf("%q is not a known action", string(a)))
	}
	return nil
}

func (a Action) String() string {
	return string(a)
}

// LogEntry is an append-only audit record. Status-change entries carry both
// statuses; order-level entries (recalculation, delay decisions) may carry no
// milestone.
type LogEntry struct {
	id          kernel.UUID
	orderID     kernel.UUID
	milestoneID *kernel.UUID
	actorID     string
	action      Action
	fromStatus  *Status
	toStatus    *Status
	note        string
	at          time.Time
}

// NewLogEntry creates an entry without statuses.
func NewLogEntry(
	orderID kernel.UUID,
	milestoneID *kernel.UUID,
	actorID string,
	action Action,
	note string,
	at time.Time,
) (LogEntry, error) {
	return RestoreLogEntry(kernel.NewUUID(), orderID, milestoneID, actorID, action, nil, nil, note, at)
}

// NewStatusChangeEntry records a milestone moving from one status to another.
func NewStatusChangeEntry(
	m *Milestone,
	actorID string,
	action Action,
	from, to Status,
	note string,
	at time.Time,
) (LogEntry, error) {
	if err := m.Validate(); err != nil {
		return LogEntry{}, err
	}
	id := m.ID()
	return RestoreLogEntry(kernel.NewUUID(), m.OrderID(), &id, actorID, action, &from, &to, note, at)
}

// RestoreLogEntry rebuilds an entry from storage.
func RestoreLogEntry(
	id, orderID kernel.UUID,
	milestoneID *kernel.UUID,
	actorID string,
	action Action,
	from, to *Status,
	note string,
	at time.Time,
) (LogEntry, error) {
	var actorErr, atErr, milestoneErr error
	if strings.TrimSpace(actorID) == "" {
		actorErr = errs.NewValueIsRequiredError("actor id")
	}
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("logged at")
	}
	if milestoneID != nil {
		milestoneErr = milestoneID.Validate()
	}

	var statusErrs []error
	for _, s := range []*Status{from, to} {
		if s != nil {
			statusErrs = append(statusErrs, s.Validate())
		}
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		milestoneErr,
		actorErr,
		action.Validate(),
		atErr,
		errors.Join(statusErrs...),
	); err != nil {
		return LogEntry{}, err
	}

	return LogEntry{
		id:          id,
		orderID:     orderID,
		milestoneID: milestoneID,
		actorID:     actorID,
		action:      action,
		fromStatus:  from,
		toStatus:    to,
		note:        note,
		at:          at.UTC(),
	}, nil
}

func (e LogEntry) ID() kernel.UUID           { return e.id }
func (e LogEntry) OrderID() kernel.UUID      { return e.orderID }
func (e LogEntry) MilestoneID() *kernel.UUID { return e.milestoneID }
func (e LogEntry) ActorID() string           { return e.actorID }
func (e LogEntry) Action() Action            { return e.action }
func (e LogEntry) FromStatus() *Status       { return e.fromStatus }
func (e LogEntry) ToStatus() *Status         { return e.toStatus }
func (e LogEntry) Note() string              { return e.note }
func (e LogEntry) At() time.Time             { return e.at }
