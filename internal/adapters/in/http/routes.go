package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetOrderMilestonesParams are the query parameters of getOrderMilestones.
type GetOrderMilestonesParams struct {
	Today *openapi_types.Date `form:"today,omitempty" json:"today,omitempty"`
}

// GetOrderLogParams are the query parameters of getOrderLog.
type GetOrderLogParams struct {
	MilestoneID *openapi_types.UUID `form:"milestone_id,omitempty" json:"milestone_id,omitempty"`
}

// ListDelayRequestsParams are the query parameters of listDelayRequests.
type ListDelayRequestsParams struct {
	PendingOnly *bool `form:"pending_only,omitempty" json:"pending_only,omitempty"`
}

// ServerInterface has one method per operation of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (POST /api/v1/orders/{orderId}/activate)
	ActivateOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/milestones)
	GetOrderMilestones(ctx echo.Context, orderID openapi_types.UUID, params GetOrderMilestonesParams) error
	// (GET /api/v1/orders/{orderId}/milestones/export)
	ExportOrderMilestones(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/log)
	GetOrderLog(ctx echo.Context, orderID openapi_types.UUID, params GetOrderLogParams) error
	// (GET /api/v1/orders/{orderId}/delay-requests)
	ListDelayRequests(ctx echo.Context, orderID openapi_types.UUID, params ListDelayRequestsParams) error
	// (POST /api/v1/orders/{orderId}/delay-requests)
	SubmitDelayRequest(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/milestones/{milestoneId}/transition)
	TransitionMilestone(ctx echo.Context, milestoneID openapi_types.UUID) error
	// (POST /api/v1/delay-requests/{requestId}/approve)
	ApproveDelayRequest(ctx echo.Context, requestID openapi_types.UUID) error
	// (POST /api/v1/delay-requests/{requestId}/reject)
	RejectDelayRequest(ctx echo.Context, requestID openapi_types.UUID) error
	// (POST /api/v1/schedule/preview)
	PreviewSchedule(ctx echo.Context) error
}

// ServerInterfaceWrapper binds path and query parameters before calling the
// handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindPathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ActivateOrder(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ActivateOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetOrderMilestones(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}

	var params GetOrderMilestonesParams
	if err = runtime.BindQueryParameter("form", true, false, "today", ctx.QueryParams(), &params.Today); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter today: %s", err))
	}
	return w.Handler.GetOrderMilestones(ctx, orderID, params)
}

func (w *ServerInterfaceWrapper) ExportOrderMilestones(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ExportOrderMilestones(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetOrderLog(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}

	var params GetOrderLogParams
	if err = runtime.BindQueryParameter("form", true, false, "milestone_id", ctx.QueryParams(), &params.MilestoneID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter milestone_id: %s", err))
	}
	return w.Handler.GetOrderLog(ctx, orderID, params)
}

func (w *ServerInterfaceWrapper) ListDelayRequests(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}

	var params ListDelayRequestsParams
	if err = runtime.BindQueryParameter("form", true, false, "pending_only", ctx.QueryParams(), &params.PendingOnly); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter pending_only: %s", err))
	}
	return w.Handler.ListDelayRequests(ctx, orderID, params)
}

func (w *ServerInterfaceWrapper) SubmitDelayRequest(ctx echo.Context) error {
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.SubmitDelayRequest(ctx, orderID)
}

func (w *ServerInterfaceWrapper) TransitionMilestone(ctx echo.Context) error {
	milestoneID, err := bindPathUUID(ctx, "milestoneId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionMilestone(ctx, milestoneID)
}

func (w *ServerInterfaceWrapper) ApproveDelayRequest(ctx echo.Context) error {
	requestID, err := bindPathUUID(ctx, "requestId")
	if err != nil {
		return err
	}
	return w.Handler.ApproveDelayRequest(ctx, requestID)
}

func (w *ServerInterfaceWrapper) RejectDelayRequest(ctx echo.Context) error {
	requestID, err := bindPathUUID(ctx, "requestId")
	if err != nil {
		return err
	}
	return w.Handler.RejectDelayRequest(ctx, requestID)
}

func (w *ServerInterfaceWrapper) PreviewSchedule(ctx echo.Context) error {
	return w.Handler.PreviewSchedule(ctx)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation to router.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/orders", w.CreateOrder, m...)
	router.POST("/api/v1/orders/:orderId/activate", w.ActivateOrder, m...)
	router.GET("/api/v1/orders/:orderId/milestones", w.GetOrderMilestones, m...)
	router.GET("/api/v1/orders/:orderId/milestones/export", w.ExportOrderMilestones, m...)
	router.GET("/api/v1/orders/:orderId/log", w.GetOrderLog, m...)
	router.GET("/api/v1/orders/:orderId/delay-requests", w.ListDelayRequests, m...)
	router.POST("/api/v1/orders/:orderId/delay-requests", w.SubmitDelayRequest, m...)
	router.POST("/api/v1/milestones/:milestoneId/transition", w.TransitionMilestone, m...)
	router.POST("/api/v1/delay-requests/:requestId/approve", w.ApproveDelayRequest, m...)
	router.POST("/api/v1/delay-requests/:requestId/reject", w.RejectDelayRequest, m...)
	router.POST("/api/v1/schedule/preview", w.PreviewSchedule, m...)
}
