package http

import (
	"time"

	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// NewOrder is the body of createOrder and previewSchedule.
type NewOrder struct {
	CustomerRef      string              `json:"customer_ref"`
	TradeTerm        string              `json:"trade_term"`
	Category         string              `json:"category"`
	Packaging        string              `json:"packaging"`
	RequiresPPSample bool                `json:"requires_pp_sample"`
	ShipDate         *openapi_types.Date `json:"ship_date,omitempty"`
	WarehouseDate    *openapi_types.Date `json:"warehouse_date,omitempty"`
	CreatedAt        *time.Time          `json:"created_at,omitempty"`
}

type Transition struct {
	Status          string `json:"status"`
	Note            string `json:"note"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}

type NewDelayRequest struct {
	MilestoneID                  *openapi_types.UUID `json:"milestone_id,omitempty"`
	Reason                       string              `json:"reason"`
	ReasonText                   string              `json:"reason_text"`
	ProposedAnchorDate           *openapi_types.Date `json:"proposed_anchor_date,omitempty"`
	ProposedDueDate              *openapi_types.Date `json:"proposed_due_date,omitempty"`
	RequiresExternalConfirmation bool                `json:"requires_external_confirmation"`
	ConfirmationEvidenceRef      string              `json:"confirmation_evidence_ref"`
}

type Approval struct {
	EvidenceRef string `json:"evidence_ref"`
}

type Rejection struct {
	Note string `json:"note"`
}

type Order struct {
	ID               openapi_types.UUID  `json:"id"`
	Number           string              `json:"number"`
	CustomerRef      string              `json:"customer_ref"`
	TradeTerm        string              `json:"trade_term"`
	Category         string              `json:"category"`
	Packaging        string              `json:"packaging"`
	RequiresPPSample bool                `json:"requires_pp_sample"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	ShipDate         *openapi_types.Date `json:"ship_date,omitempty"`
	WarehouseDate    *openapi_types.Date `json:"warehouse_date,omitempty"`
	Version          int                 `json:"version"`
}

type Milestone struct {
	ID               openapi_types.UUID `json:"id"`
	Step             string             `json:"step"`
	Name             string             `json:"name"`
	Role             string             `json:"role"`
	Assignee         *string            `json:"assignee,omitempty"`
	PlannedAt        openapi_types.Date `json:"planned_at"`
	DueAt            openapi_types.Date `json:"due_at"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes"`
	Required         bool               `json:"required"`
	Critical         bool               `json:"critical"`
	EvidenceRequired bool               `json:"evidence_required"`
	Predecessors     []string           `json:"predecessors"`
	Overdue          bool               `json:"overdue"`
	Version          int                `json:"version"`
}

type OrderMilestones struct {
	Order      Order       `json:"order"`
	Milestones []Milestone `json:"milestones"`
}

type LogEntry struct {
	ID          openapi_types.UUID  `json:"id"`
	MilestoneID *openapi_types.UUID `json:"milestone_id,omitempty"`
	Step        string              `json:"step,omitempty"`
	ActorID     string              `json:"actor_id"`
	Action      string              `json:"action"`
	FromStatus  string              `json:"from_status,omitempty"`
	ToStatus    string              `json:"to_status,omitempty"`
	Note        string              `json:"note,omitempty"`
	At          time.Time           `json:"at"`
}

type TransitionResult struct {
	Milestone    Milestone  `json:"milestone"`
	AutoAdvanced *Milestone `json:"auto_advanced,omitempty"`
	Entries      []LogEntry `json:"entries"`
}

type DelayRequest struct {
	ID                           openapi_types.UUID  `json:"id"`
	MilestoneID                  *openapi_types.UUID `json:"milestone_id,omitempty"`
	Step                         string              `json:"step,omitempty"`
	Reason                       string              `json:"reason"`
	ReasonText                   string              `json:"reason_text"`
	ProposedAnchorDate           *openapi_types.Date `json:"proposed_anchor_date,omitempty"`
	ProposedDueDate              *openapi_types.Date `json:"proposed_due_date,omitempty"`
	RequiresExternalConfirmation bool                `json:"requires_external_confirmation"`
	ConfirmationEvidenceRef      string              `json:"confirmation_evidence_ref,omitempty"`
	RequestedBy                  string              `json:"requested_by"`
	RequestedAt                  time.Time           `json:"requested_at"`
	Status                       string              `json:"status"`
	DecidedBy                    *string             `json:"decided_by,omitempty"`
	DecidedAt                    *time.Time          `json:"decided_at,omitempty"`
	RejectionNote                string              `json:"rejection_note,omitempty"`
}

type DelayDecision struct {
	Request DelayRequest `json:"request"`
	Updated []Milestone  `json:"updated"`
	Entry   LogEntry     `json:"entry"`
}

type ScheduleLine struct {
	Step             string             `json:"step"`
	Name             string             `json:"name"`
	Role             string             `json:"role"`
	Required         bool               `json:"required"`
	Critical         bool               `json:"critical"`
	EvidenceRequired bool               `json:"evidence_required"`
	Predecessors     []string           `json:"predecessors"`
	RequiredDocs     []string           `json:"required_docs"`
	PlannedAt        openapi_types.Date `json:"planned_at"`
	DueAt            openapi_types.Date `json:"due_at"`
}

// attributes converts the body into order attributes. Enumeration errors are
// combined by the caller.
func (o NewOrder) attributes(createdAt time.Time) (order.Attributes, []error) {
	tradeTerm, termErr := order.ParseTradeTerm(o.TradeTerm)
	category, categoryErr := order.ParseCategory(o.Category)
	packaging, packagingErr := order.ParsePackaging(o.Packaging)

	if o.CreatedAt != nil {
		createdAt = o.CreatedAt.UTC()
	}
	return order.Attributes{
		TradeTerm:        tradeTerm,
		Category:         category,
		Packaging:        packaging,
		RequiresPPSample: o.RequiresPPSample,
		CreatedAt:        createdAt,
		ShipDate:         timeOrNil(o.ShipDate),
		WarehouseDate:    timeOrNil(o.WarehouseDate),
	}, []error{termErr, categoryErr, packagingErr}
}

func timeOrNil(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := kernel.DateOf(d.Time)
	return &t
}

func date(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}

func dateOrNil(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	d := date(*t)
	return &d
}

func uuidOrNil(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	u := id.Bytes()
	return &u
}

func orderFromDomain(o *order.Order) Order {
	return Order{
		ID:               o.ID().Bytes(),
		Number:           o.Number(),
		CustomerRef:      o.CustomerRef(),
		TradeTerm:        o.TradeTerm().String(),
		Category:         o.Category().String(),
		Packaging:        o.Packaging().String(),
		RequiresPPSample: o.RequiresPPSample(),
		Status:           o.Status().String(),
		CreatedAt:        o.CreatedAt(),
		ShipDate:         dateOrNil(o.ShipDate()),
		WarehouseDate:    dateOrNil(o.WarehouseDate()),
		Version:          o.Version(),
	}
}

func orderFromView(v queries.OrderView) Order {
	return Order{
		ID:               v.ID.Bytes(),
		Number:           v.Number,
		CustomerRef:      v.CustomerRef,
		TradeTerm:        v.TradeTerm,
		Category:         v.Category,
		Packaging:        v.Packaging,
		RequiresPPSample: v.RequiresPPSample,
		Status:           v.Status,
		CreatedAt:        v.CreatedAt,
		ShipDate:         dateOrNil(v.ShipDate),
		WarehouseDate:    dateOrNil(v.WarehouseDate),
		Version:          v.Version,
	}
}

func milestoneFromDomain(m *milestone.Milestone, today time.Time) Milestone {
	predecessors := make([]string, 0, len(m.Predecessors()))
	for _, p := range m.Predecessors() {
		predecessors = append(predecessors, p.String())
	}
	return Milestone{
		ID:               m.ID().Bytes(),
		Step:             m.Step().String(),
		Name:             m.Name(),
		Role:             m.Role().String(),
		Assignee:         m.Assignee(),
		PlannedAt:        date(m.PlannedAt()),
		DueAt:            date(m.DueAt()),
		Status:           m.Status().String(),
		Notes:            m.Notes(),
		Required:         m.IsRequired(),
		Critical:         m.IsCritical(),
		EvidenceRequired: m.EvidenceRequired(),
		Predecessors:     predecessors,
		Overdue:          m.IsOverdue(today),
		Version:          m.Version(),
	}
}

func milestonesFromDomain(all []*milestone.Milestone, today time.Time) []Milestone {
	out := make([]Milestone, 0, len(all))
	for _, m := range all {
		out = append(out, milestoneFromDomain(m, today))
	}
	return out
}

func milestoneFromView(v queries.MilestoneView) Milestone {
	predecessors := v.Predecessors
	if predecessors == nil {
		predecessors = []string{}
	}
	return Milestone{
		ID:               v.ID.Bytes(),
		Step:             v.Step,
		Name:             v.Name,
		Role:             v.Role,
		Assignee:         v.Assignee,
		PlannedAt:        date(v.PlannedAt),
		DueAt:            date(v.DueAt),
		Status:           v.Status,
		Notes:            v.Notes,
		Required:         v.Required,
		Critical:         v.Critical,
		EvidenceRequired: v.EvidenceRequired,
		Predecessors:     predecessors,
		Overdue:          v.Overdue,
		Version:          v.Version,
	}
}

// logEntryFromDomain fills Step from steps, keyed by milestone id.
func logEntryFromDomain(e milestone.LogEntry, steps map[kernel.UUID]milestone.StepKey) LogEntry {
	out := LogEntry{
		ID:          e.ID().Bytes(),
		MilestoneID: uuidOrNil(e.MilestoneID()),
		ActorID:     e.ActorID(),
		Action:      e.Action().String(),
		Note:        e.Note(),
		At:          e.At(),
	}
	if e.MilestoneID() != nil {
		out.Step = steps[*e.MilestoneID()].String()
	}
	if e.FromStatus() != nil {
		out.FromStatus = e.FromStatus().String()
	}
	if e.ToStatus() != nil {
		out.ToStatus = e.ToStatus().String()
	}
	return out
}

func logEntryFromView(v queries.LogEntryView) LogEntry {
	return LogEntry{
		ID:          v.ID.Bytes(),
		MilestoneID: uuidOrNil(v.MilestoneID),
		Step:        v.Step,
		ActorID:     v.ActorID,
		Action:      v.Action,
		FromStatus:  v.FromStatus,
		ToStatus:    v.ToStatus,
		Note:        v.Note,
		At:          v.At,
	}
}

func delayFromDomain(r *delay.Request, step string) DelayRequest {
	out := DelayRequest{
		ID:                           r.ID().Bytes(),
		MilestoneID:                  uuidOrNil(r.MilestoneID()),
		Step:                         step,
		Reason:                       r.Reason().String(),
		ReasonText:                   r.ReasonText(),
		ProposedAnchorDate:           dateOrNil(r.ProposedAnchorDate()),
		ProposedDueDate:              dateOrNil(r.ProposedDueDate()),
		RequiresExternalConfirmation: r.RequiresExternalConfirmation(),
		ConfirmationEvidenceRef:      r.ConfirmationEvidenceRef(),
		RequestedBy:                  r.RequestedBy(),
		RequestedAt:                  r.RequestedAt(),
		Status:                       r.Status().String(),
	}
	if d := r.Decision(); d != nil {
		by, at := d.DecidedBy, d.DecidedAt
		out.DecidedBy = &by
		out.DecidedAt = &at
		out.RejectionNote = d.RejectionNote
	}
	return out
}

func delayFromView(v queries.DelayRequestView) DelayRequest {
	return DelayRequest{
		ID:                           v.ID.Bytes(),
		MilestoneID:                  uuidOrNil(v.MilestoneID),
		Step:                         v.Step,
		Reason:                       v.Reason,
		ReasonText:                   v.ReasonText,
		ProposedAnchorDate:           dateOrNil(v.ProposedAnchorDate),
		ProposedDueDate:              dateOrNil(v.ProposedDueDate),
		RequiresExternalConfirmation: v.RequiresExternalConfirmation,
		ConfirmationEvidenceRef:      v.ConfirmationEvidenceRef,
		RequestedBy:                  v.RequestedBy,
		RequestedAt:                  v.RequestedAt,
		Status:                       v.Status,
		DecidedBy:                    v.DecidedBy,
		DecidedAt:                    v.DecidedAt,
		RejectionNote:                v.RejectionNote,
	}
}

func lineFromQuery(l queries.ScheduleLine) ScheduleLine {
	return ScheduleLine{
		Step:             l.Step,
		Name:             l.Name,
		Role:             l.Role,
		Required:         l.Required,
		Critical:         l.Critical,
		EvidenceRequired: l.EvidenceRequired,
		Predecessors:     l.Predecessors,
		RequiredDocs:     l.RequiredDocs,
		PlannedAt:        date(l.PlannedAt),
		DueAt:            date(l.DueAt),
	}
}
