package milestone

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

const (
	blockedPrefix   = "BLOCKED: "
	noteStampLayout = "2006-01-02 15:04"
)

// ErrMilestoneIsNotConstructed is returned when a Milestone was not created
// through NewMilestone or RestoreMilestone.
var ErrMilestoneIsNotConstructed = errors.New("Milestone must be created via NewMilestone constructor")

// Definition carries the template facts copied onto every milestone generated
// from it. Predecessors are already filtered to the templates included for the
// order, so every key present must be Done before the milestone starts.
type Definition struct {
	Step             StepKey
	Name             string
	Role             kernel.Role
	Required         bool
	Critical         bool
	EvidenceRequired bool
	Predecessors     []StepKey
}

// Validate checks the step key, the name and the responsible role.
func (d Definition) Validate() error {
	var nameErr, roleErr error
	if strings.TrimSpace(d.Name) == "" {
		nameErr = errs.NewValueIsRequiredError("milestone name")
	}
	if !d.Role.IsResponsible() {
		roleErr = errs.NewValueIsInvalidErrorWithCause("responsible role", fmt.Errorf("%q cannot own milestones", d.Role))
	}

	predErrs := make([]error, 0, len(d.Predecessors))
	for _, p := range d.Predecessors {
		if err := p.Validate(); err != nil {
			predErrs = append(predErrs, err)
		}
	}

	return errors.Join(d.Step.Validate(), nameErr, roleErr, errors.Join(predErrs...))
}

// Milestone is one execution checkpoint of an order. Milestones are created in
// full when the order is activated and afterwards only change through status
// transitions and delay recalculation.
//
// Milestone follows these invariants:
//   - PlannedAt and DueAt are business days and PlannedAt <= DueAt
//   - Done is terminal
//   - while Blocked the first line of the notes is "BLOCKED: <reason>"
type Milestone struct {
	id         kernel.UUID
	orderID    kernel.UUID
	definition Definition
	assignee   *string
	plannedAt  time.Time
	dueAt      time.Time
	status     Status
	notes      string

	// version is the optimistic-concurrency counter read from storage.
	// Repositories update with "WHERE version = ?" and bump it by one.
	version int

	guard guard.ConstructorGuard
}

// NewMilestone creates a NotStarted milestone for an order.
//
// Parameters:
//   - id: identifier of the milestone
//   - orderID: the owning order
//   - def: template facts (step, name, role, flags, predecessors)
//   - plannedAt, dueAt: business days computed by the schedule calculator
//
// Returns:
//   - *Milestone in NotStarted status with version 0
//   - all validation errors joined with errors.Join
func NewMilestone(id, orderID kernel.UUID, def Definition, plannedAt, dueAt time.Time) (*Milestone, error) {
	m := &Milestone{
		status: NotStarted,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setIDs(id, orderID),
		m.setDefinition(def),
		m.setDates(plannedAt, dueAt),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreMilestone rebuilds a milestone from storage. Dates are not required
// to be business days so that rows written before a calendar change load.
func RestoreMilestone(
	id, orderID kernel.UUID,
	def Definition,
	assignee *string,
	plannedAt, dueAt time.Time,
	status Status,
	notes string,
	version int,
) (*Milestone, error) {
	m := &Milestone{
		assignee:  assignee,
		plannedAt: kernel.DateOf(plannedAt),
		dueAt:     kernel.DateOf(dueAt),
		status:    status,
		notes:     notes,
		version:   version,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setIDs(id, orderID),
		m.setDefinition(def),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Milestone) Validate() error {
	if m == nil {
		return ErrMilestoneIsNotConstructed
	}
	return m.guard.Validate(ErrMilestoneIsNotConstructed)
}

func (m *Milestone) ID() kernel.UUID        { return m.id }
func (m *Milestone) OrderID() kernel.UUID   { return m.orderID }
func (m *Milestone) Step() StepKey          { return m.definition.Step }
func (m *Milestone) Name() string           { return m.definition.Name }
func (m *Milestone) Role() kernel.Role      { return m.definition.Role }
func (m *Milestone) IsRequired() bool       { return m.definition.Required }
func (m *Milestone) IsCritical() bool       { return m.definition.Critical }
func (m *Milestone) EvidenceRequired() bool { return m.definition.EvidenceRequired }
func (m *Milestone) Assignee() *string      { return m.assignee }
func (m *Milestone) PlannedAt() time.Time   { return m.plannedAt }
func (m *Milestone) DueAt() time.Time       { return m.dueAt }
func (m *Milestone) Status() Status         { return m.status }
func (m *Milestone) Notes() string          { return m.notes }
func (m *Milestone) Version() int           { return m.version }

// Predecessors returns a copy of the denormalized predecessor keys.
func (m *Milestone) Predecessors() []StepKey {
	return slices.Clone(m.definition.Predecessors)
}

// Definition returns the template facts the milestone was created from.
func (m *Milestone) Definition() Definition {
	def := m.definition
	def.Predecessors = slices.Clone(def.Predecessors)
	return def
}

// BlockedReason returns the reason recorded when the milestone was blocked,
// or "" when the notes carry none.
func (m *Milestone) BlockedReason() string {
	first, _, _ := strings.Cut(m.notes, "\n")
	if reason, ok := strings.CutPrefix(first, blockedPrefix); ok {
		return reason
	}
	return ""
}

// IsOverdue reports whether the due date has passed without completion.
func (m *Milestone) IsOverdue(today time.Time) bool {
	return m.status != Done && m.dueAt.Before(kernel.DateOf(today))
}

// ChangeStatus applies a legal transition and records the note.
//
// Note handling:
//   - entering Blocked requires a reason and writes "BLOCKED: <reason>" as the
//     first line, replacing an earlier one
//   - leaving Blocked removes that line
//   - any other non-empty note is appended as "[YYYY-MM-DD HH:MM] <note>"
//
// Returns:
//   - the status before the change
//   - *TransitionNotAllowedError for moves outside the transition table
//   - ValueIsRequiredError when blocking without a reason
func (m *Milestone) ChangeStatus(target Status, note string, at time.Time) (Status, error) {
	from := m.status
	next, err := from.TransitionTo(target)
	if err != nil {
		return from, err
	}

	note = strings.TrimSpace(note)
	notes := m.notes
	if from == Blocked {
		notes = stripBlockedLine(notes)
	}

	if next == Blocked {
		if note == "" {
			return from, errs.NewValueIsRequiredError("blocked reason")
		}
		reason, _, _ := strings.Cut(note, "\n")
		notes = joinNoteLines(blockedPrefix+reason, stripBlockedLine(notes))
	} else if note != "" {
		notes = joinNoteLines(notes, fmt.Sprintf("[%s] %s", at.UTC().Format(noteStampLayout), note))
	}

	m.status = next
	m.notes = notes
	return from, nil
}

// AdvanceVersion records that the current state was stored. Repositories
// call it after a successful versioned write.
func (m *Milestone) AdvanceVersion() {
	m.version++
}

// Reschedule replaces both dates. The dates must be business days with
// plannedAt on or before dueAt. Status and notes are untouched.
func (m *Milestone) Reschedule(plannedAt, dueAt time.Time) error {
	return m.setDates(plannedAt, dueAt)
}

func (m *Milestone) setIDs(id, orderID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	m.id = id
	m.orderID = orderID
	return nil
}

func (m *Milestone) setDefinition(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	def.Predecessors = slices.Clone(def.Predecessors)
	m.definition = def
	return nil
}

func (m *Milestone) setDates(plannedAt, dueAt time.Time) error {
	plannedAt = kernel.DateOf(plannedAt)
	dueAt = kernel.DateOf(dueAt)

	if err := errors.Join(
		kernel.ValidateBusinessDay("planned at", plannedAt),
		kernel.ValidateBusinessDay("due at", dueAt),
	); err != nil {
		return err
	}
	if plannedAt.After(dueAt) {
		return errs.NewValueIsInvalidErrorWithCause("planned at", fmt.Errorf(
			"%s is after due date %s", kernel.FormatDate(plannedAt), kernel.FormatDate(dueAt)))
	}

	m.plannedAt = plannedAt
	m.dueAt = dueAt
	return nil
}

func stripBlockedLine(notes string) string {
	first, rest, _ := strings.Cut(notes, "\n")
	if strings.HasPrefix(first, blockedPrefix) {
		return rest
	}
	return notes
}

func joinNoteLines(head, tail string) string {
	switch {
	case head == "":
		return tail
	case tail == "":
		return head
	default:
		return head + "\n" + tail
	}
}
