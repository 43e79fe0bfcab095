package delay

import (
	"errors"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

// ErrRequestIsNotConstructed is returned when a Request was not created through
// NewRequest or RestoreRequest.
var ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")

// Kind tells the recalculation engine which strategy an approved request uses.
type Kind int

const (
	// AnchorChange moves the order's anchor and recomputes every milestone.
	AnchorChange Kind = iota + 1
	// MilestoneChange moves one milestone's due date and shifts later ones.
	MilestoneChange
)

// Submission holds the fields entered by the requester.
// Exactly one of ProposedAnchorDate and ProposedDueDate must be set;
// ProposedDueDate needs a MilestoneID.
type Submission struct {
	OrderID                      kernel.UUID
	MilestoneID                  *kernel.UUID
	Reason                       ReasonCategory
	ReasonText                   string
	ProposedAnchorDate           *time.Time
	ProposedDueDate              *time.Time
	RequiresExternalConfirmation bool
	ConfirmationEvidenceRef      string
	RequestedBy                  string
	RequestedAt                  time.Time
}

// Decision holds the approver's fields of a decided request.
type Decision struct {
	DecidedBy     string
	DecidedAt     time.Time
	RejectionNote string
}

// Request is a delay request aggregate. Once approved it drives the delay
// recalculation engine; once decided it is immutable.
type Request struct {
	id         kernel.UUID
	submission Submission
	status     ApprovalStatus
	decision   *Decision
	guard      guard.ConstructorGuard
}

// NewRequest validates a submission and returns a Pending request.
//
// Returns:
//   - ValueIsInvalidError when both or neither proposals are set
//   - ValueIsRequiredError when a due-date proposal names no milestone
//   - ValueIsInvalidError when the proposed due date is a weekend day
func NewRequest(id kernel.UUID, s Submission) (*Request, error) {
	if err := errors.Join(id.Validate(), validateSubmission(&s)); err != nil {
		return nil, err
	}
	return &Request{
		id:         id,
		submission: s,
		status:     Pending,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreRequest rebuilds a request from storage.
func RestoreRequest(id kernel.UUID, s Submission, status ApprovalStatus, decision *Decision) (*Request, error) {
	if err := errors.Join(id.Validate(), validateSubmission(&s), status.Validate()); err != nil {
		return nil, err
	}
	if status != Pending && decision == nil {
		return nil, errs.NewValueIsRequiredError("decision")
	}
	return &Request{
		id:         id,
		submission: s,
		status:     status,
		decision:   decision,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

func (r *Request) ID() kernel.UUID                { return r.id }
func (r *Request) OrderID() kernel.UUID           { return r.submission.OrderID }
func (r *Request) MilestoneID() *kernel.UUID      { return r.submission.MilestoneID }
func (r *Request) Reason() ReasonCategory         { return r.submission.Reason }
func (r *Request) ReasonText() string             { return r.submission.ReasonText }
func (r *Request) ProposedAnchorDate() *time.Time { return r.submission.ProposedAnchorDate }
func (r *Request) ProposedDueDate() *time.Time    { return r.submission.ProposedDueDate }
func (r *Request) RequiresExternalConfirmation() bool {
	return r.submission.RequiresExternalConfirmation
}
func (r *Request) ConfirmationEvidenceRef() string { return r.submission.ConfirmationEvidenceRef }
func (r *Request) RequestedBy() string             { return r.submission.RequestedBy }
func (r *Request) RequestedAt() time.Time          { return r.submission.RequestedAt }
func (r *Request) Status() ApprovalStatus          { return r.status }
func (r *Request) Submission() Submission          { return r.submission }

// Decision returns the approver's fields, nil while Pending.
func (r *Request) Decision() *Decision {
	if r.decision == nil {
		return nil
	}
	d := *r.decision
	return &d
}

// Kind reports which recalculation strategy the request selects.
func (r *Request) Kind() Kind {
	if r.submission.ProposedAnchorDate != nil {
		return AnchorChange
	}
	return MilestoneChange
}

// Approve records the approval. Requests flagged for external confirmation
// need an evidence reference, either submitted with the request or supplied
// here.
func (r *Request) Approve(approverID string, at time.Time, evidenceRef string) error {
	if strings.TrimSpace(approverID) == "" {
		return errs.NewValueIsRequiredError("approver id")
	}

	next, err := r.status.decide(Approved)
	if err != nil {
		return err
	}

	evidenceRef = strings.TrimSpace(evidenceRef)
	if evidenceRef == "" {
		evidenceRef = r.submission.ConfirmationEvidenceRef
	}
	if r.submission.RequiresExternalConfirmation && evidenceRef == "" {
		return errs.NewValueIsRequiredErrorWithCause(
			"confirmation evidence",
			errors.New("the delay must be confirmed by the external party before approval"),
		)
	}

	r.status = next
	r.submission.ConfirmationEvidenceRef = evidenceRef
	r.decision = &Decision{DecidedBy: approverID, DecidedAt: at.UTC()}
	return nil
}

// Reject records the rejection with a mandatory note.
func (r *Request) Reject(approverID string, at time.Time, note string) error {
	var approverErr, noteErr error
	if strings.TrimSpace(approverID) == "" {
		approverErr = errs.NewValueIsRequiredError("approver id")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		noteErr = errs.NewValueIsRequiredError("rejection note")
	}
	if err := errors.Join(approverErr, noteErr); err != nil {
		return err
	}

	next, err := r.status.decide(Rejected)
	if err != nil {
		return err
	}

	r.status = next
	r.decision = &Decision{DecidedBy: approverID, DecidedAt: at.UTC(), RejectionNote: note}
	return nil
}

func validateSubmission(s *Submission) error {
	var proposalErr, milestoneErr, dueErr, requesterErr, textErr, atErr error

	switch {
	case s.ProposedAnchorDate != nil && s.ProposedDueDate != nil:
		proposalErr = errs.NewValueIsInvalidErrorWithCause("proposal",
			errors.New("propose either a new anchor date or a new due date, not both"))
	case s.ProposedAnchorDate == nil && s.ProposedDueDate == nil:
		proposalErr = errs.NewValueIsRequiredErrorWithCause("proposal",
			errors.New("a new anchor date or a new due date is required"))
	case s.ProposedDueDate != nil:
		if s.MilestoneID == nil {
			milestoneErr = errs.NewValueIsRequiredError("milestone id")
		} else {
			milestoneErr = s.MilestoneID.Validate()
		}
		d := kernel.DateOf(*s.ProposedDueDate)
		s.ProposedDueDate = &d
		dueErr = kernel.ValidateBusinessDay("proposed due date", d)
	default:
		d := kernel.DateOf(*s.ProposedAnchorDate)
		s.ProposedAnchorDate = &d
	}

	if strings.TrimSpace(s.RequestedBy) == "" {
		requesterErr = errs.NewValueIsRequiredError("requested by")
	}
	if strings.TrimSpace(s.ReasonText) == "" {
		textErr = errs.NewValueIsRequiredError("reason text")
	}
	if s.RequestedAt.IsZero() {
		atErr = errs.NewValueIsRequiredError("requested at")
	}

	return errors.Join(
		s.OrderID.Validate(),
		s.Reason.Validate(),
		proposalErr,
		milestoneErr,
		dueErr,
		requesterErr,
		textErr,
		atErr,
	)
}
