package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"exportflow/internal/adapters/out/xlsx"
	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/ports"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"
)

// Use case contracts consumed by the server. The command and query handlers
// of the application layer satisfy them.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	ActivateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ActivateOrderCommand) ([]*milestone.Milestone, error)
	}
	TransitionMilestoneHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionMilestoneCommand) (commands.TransitionResult, error)
	}
	SubmitDelayRequestHandler interface {
		Handle(ctx context.Context, cmd commands.SubmitDelayRequestCommand) (*delay.Request, error)
	}
	ApproveDelayRequestHandler interface {
		Handle(ctx context.Context, cmd commands.ApproveDelayRequestCommand) (commands.DelayDecision, error)
	}
	RejectDelayRequestHandler interface {
		Handle(ctx context.Context, cmd commands.RejectDelayRequestCommand) (commands.DelayDecision, error)
	}
	GetOrderMilestonesHandler interface {
		Handle(ctx context.Context, query queries.GetOrderMilestonesQuery) (queries.GetOrderMilestonesQueryResponse, error)
	}
	GetMilestoneLogHandler interface {
		Handle(ctx context.Context, query queries.GetMilestoneLogQuery) ([]queries.LogEntryView, error)
	}
	GetDelayRequestsHandler interface {
		Handle(ctx context.Context, query queries.GetDelayRequestsQuery) ([]queries.DelayRequestView, error)
	}
	PreviewScheduleHandler interface {
		Handle(query queries.PreviewScheduleQuery) ([]queries.ScheduleLine, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder         CreateOrderHandler
	ActivateOrder       ActivateOrderHandler
	TransitionMilestone TransitionMilestoneHandler
	SubmitDelayRequest  SubmitDelayRequestHandler
	ApproveDelayRequest ApproveDelayRequestHandler
	RejectDelayRequest  RejectDelayRequestHandler
	GetOrderMilestones  GetOrderMilestonesHandler
	GetMilestoneLog     GetMilestoneLogHandler
	GetDelayRequests    GetDelayRequestsHandler
	PreviewSchedule     PreviewScheduleHandler
}

// Server implements ServerInterface. It translates requests into commands
// and queries and maps results and errors back to JSON.
type Server struct {
	handlers Handlers
	clock    ports.Clock
	logger   *zap.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a server over the given use cases.
func NewServer(handlers Handlers, clock ports.Clock, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: handlers,
		clock:    clock,
		logger:   logger,
	}
}

func (s *Server) today() time.Time {
	return kernel.DateOf(s.clock.Now())
}

func kernelID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	attrs, parseErrs := body.attributes(s.clock.Now())
	if err := errors.Join(parseErrs...); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), body.CustomerRef,
		attrs.TradeTerm, attrs.Category, attrs.Packaging, attrs.RequiresPPSample, attrs.ShipDate, attrs.WarehouseDate)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, orderFromDomain(created))
}

// ActivateOrder handles POST /api/v1/orders/{orderId}/activate.
func (s *Server) ActivateOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, capability, ok := principalOf(ctx)
	if !ok {
		return unauthorized(ctx, "authorization is required")
	}
	id, err := kernelID(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewActivateOrderCommand(id, actor, capability)
	if err != nil {
		return s.fail(ctx, err)
	}

	generated, err := s.handlers.ActivateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, milestonesFromDomain(generated, s.today()))
}

func (s *Server) orderMilestones(ctx echo.Context, orderID openapi_types.UUID, today *openapi_types.Date) (queries.GetOrderMilestonesQueryResponse, error) {
	id, err := kernelID(orderID)
	if err != nil {
		return queries.GetOrderMilestonesQueryResponse{}, err
	}
	day := s.today()
	if today != nil {
		day = kernel.DateOf(today.Time)
	}

	query, err := queries.NewGetOrderMilestonesQuery(id, day)
	if err != nil {
		return queries.GetOrderMilestonesQueryResponse{}, err
	}
	return s.handlers.GetOrderMilestones.Handle(ctx.Request().Context(), query)
}

// GetOrderMilestones handles GET /api/v1/orders/{orderId}/milestones.
func (s *Server) GetOrderMilestones(ctx echo.Context, orderID openapi_types.UUID, params GetOrderMilestonesParams) error {
	resp, err := s.orderMilestones(ctx, orderID, params.Today)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := OrderMilestones{
		Order:      orderFromView(resp.Order),
		Milestones: make([]Milestone, 0, len(resp.Milestones)),
	}
	for _, m := range resp.Milestones {
		out.Milestones = append(out.Milestones, milestoneFromView(m))
	}
	return ctx.JSON(http.StatusOK, out)
}

// ExportOrderMilestones handles GET /api/v1/orders/{orderId}/milestones/export.
func (s *Server) ExportOrderMilestones(ctx echo.Context, orderID openapi_types.UUID) error {
	resp, err := s.orderMilestones(ctx, orderID, nil)
	if err != nil {
		return s.fail(ctx, err)
	}

	var buf bytes.Buffer
	if err := xlsx.WriteOrderSchedule(&buf, resp); err != nil {
		return s.fail(ctx, fmt.Errorf("render schedule: %w", err))
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.xlsx"`, resp.Order.Number))
	return ctx.Blob(http.StatusOK, xlsx.ContentType, buf.Bytes())
}

// GetOrderLog handles GET /api/v1/orders/{orderId}/log.
func (s *Server) GetOrderLog(ctx echo.Context, orderID openapi_types.UUID, params GetOrderLogParams) error {
	id, err := kernelID(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	var milestoneID *kernel.UUID
	if params.MilestoneID != nil {
		mid, idErr := kernelID(*params.MilestoneID)
		if idErr != nil {
			return s.fail(ctx, idErr)
		}
		milestoneID = &mid
	}

	query, err := queries.NewGetMilestoneLogQuery(id, milestoneID)
	if err != nil {
		return s.fail(ctx, err)
	}
	entries, err := s.handlers.GetMilestoneLog.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryFromView(e))
	}
	return ctx.JSON(http.StatusOK, out)
}

// ListDelayRequests handles GET /api/v1/orders/{orderId}/delay-requests.
func (s *Server) ListDelayRequests(ctx echo.Context, orderID openapi_types.UUID, params ListDelayRequestsParams) error {
	id, err := kernelID(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetDelayRequestsQuery(id, params.PendingOnly != nil && *params.PendingOnly)
	if err != nil {
		return s.fail(ctx, err)
	}
	requests, err := s.handlers.GetDelayRequests.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := make([]DelayRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, delayFromView(r))
	}
	return ctx.JSON(http.StatusOK, out)
}

// SubmitDelayRequest handles POST /api/v1/orders/{orderId}/delay-requests.
func (s *Server) SubmitDelayRequest(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, _, ok := principalOf(ctx)
	if !ok {
		return unauthorized(ctx, "authorization is required")
	}
	var body NewDelayRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	id, err := kernelID(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	reason, err := delay.ParseReasonCategory(body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	proposal := commands.DelayProposal{
		Reason:                       reason,
		ReasonText:                   body.ReasonText,
		AnchorDate:                   timeOrNil(body.ProposedAnchorDate),
		DueDate:                      timeOrNil(body.ProposedDueDate),
		RequiresExternalConfirmation: body.RequiresExternalConfirmation,
		ConfirmationEvidenceRef:      body.ConfirmationEvidenceRef,
	}
	if body.MilestoneID != nil {
		mid, idErr := kernelID(*body.MilestoneID)
		if idErr != nil {
			return s.fail(ctx, idErr)
		}
		proposal.MilestoneID = &mid
	}

	cmd, err := commands.NewSubmitDelayRequestCommand(kernel.NewUUID(), id, proposal, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	request, err := s.handlers.SubmitDelayRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, delayFromDomain(request, ""))
}

// TransitionMilestone handles POST /api/v1/milestones/{milestoneId}/transition.
func (s *Server) TransitionMilestone(ctx echo.Context, milestoneID openapi_types.UUID) error {
	actor, capability, ok := principalOf(ctx)
	if !ok {
		return unauthorized(ctx, "authorization is required")
	}
	var body Transition
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	id, err := kernelID(milestoneID)
	if err != nil {
		return s.fail(ctx, err)
	}
	target, err := milestone.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionMilestoneCommand(id, target, body.Note, actor, capability, body.ExpectedVersion)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.handlers.TransitionMilestone.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	today := s.today()
	steps := map[kernel.UUID]milestone.StepKey{result.Milestone.ID(): result.Milestone.Step()}
	out := TransitionResult{
		Milestone: milestoneFromDomain(result.Milestone, today),
		Entries:   make([]LogEntry, 0, len(result.Entries)),
	}
	if result.AutoAdvanced != nil {
		advanced := milestoneFromDomain(result.AutoAdvanced, today)
		out.AutoAdvanced = &advanced
		steps[result.AutoAdvanced.ID()] = result.AutoAdvanced.Step()
	}
	for _, e := range result.Entries {
		out.Entries = append(out.Entries, logEntryFromDomain(e, steps))
	}
	return ctx.JSON(http.StatusOK, out)
}

func (s *Server) decisionResponse(d commands.DelayDecision) DelayDecision {
	steps := make(map[kernel.UUID]milestone.StepKey, len(d.Updated))
	for _, m := range d.Updated {
		steps[m.ID()] = m.Step()
	}

	step := ""
	if mid := d.Request.MilestoneID(); mid != nil {
		step = steps[*mid].String()
	}
	return DelayDecision{
		Request: delayFromDomain(d.Request, step),
		Updated: milestonesFromDomain(d.Updated, s.today()),
		Entry:   logEntryFromDomain(d.Entry, steps),
	}
}

// ApproveDelayRequest handles POST /api/v1/delay-requests/{requestId}/approve.
func (s *Server) ApproveDelayRequest(ctx echo.Context, requestID openapi_types.UUID) error {
	actor, capability, ok := principalOf(ctx)
	if !ok {
		return unauthorized(ctx, "authorization is required")
	}
	var body Approval
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	id, err := kernelID(requestID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewApproveDelayRequestCommand(id, body.EvidenceRef, actor, capability)
	if err != nil {
		return s.fail(ctx, err)
	}
	decision, err := s.handlers.ApproveDelayRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, s.decisionResponse(decision))
}

// RejectDelayRequest handles POST /api/v1/delay-requests/{requestId}/reject.
func (s *Server) RejectDelayRequest(ctx echo.Context, requestID openapi_types.UUID) error {
	actor, capability, ok := principalOf(ctx)
	if !ok {
		return unauthorized(ctx, "authorization is required")
	}
	var body Rejection
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	id, err := kernelID(requestID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRejectDelayRequestCommand(id, body.Note, actor, capability)
	if err != nil {
		return s.fail(ctx, err)
	}
	decision, err := s.handlers.RejectDelayRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, s.decisionResponse(decision))
}

// PreviewSchedule handles POST /api/v1/schedule/preview. Nothing is stored.
func (s *Server) PreviewSchedule(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	attrs, parseErrs := body.attributes(s.clock.Now())
	if err := errors.Join(parseErrs...); err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewPreviewScheduleQuery(attrs)
	if err != nil {
		return s.fail(ctx, err)
	}
	lines, err := s.handlers.PreviewSchedule.Handle(query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := make([]ScheduleLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineFromQuery(l))
	}
	return ctx.JSON(http.StatusOK, out)
}
