package http

import (
	"errors"
	"net/http"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every failed request. The optional fields carry the
// details of rule violations.
type Error struct {
	Code         int      `json:"code"`
	Message      string   `json:"message"`
	Allowed      []string `json:"allowed,omitempty"`
	BlockingStep string   `json:"blocking_step,omitempty"`
	Missing      []string `json:"missing,omitempty"`
}

// StatusOf classifies err:
//   - 403 authorization
//   - 404 unknown identifier
//   - 409 concurrent modification
//   - 422 state machine, dependency, evidence and batch failures
//   - 400 validation
//   - 500 anything else
func StatusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, milestone.ErrTransitionNotAllowed),
		errors.Is(err, services.ErrDependencyViolation),
		errors.Is(err, services.ErrEvidenceMissing),
		errors.Is(err, commands.ErrBatchUpdateFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := StatusOf(err)
	body := Error{Code: code, Message: err.Error()}

	var transitionErr *milestone.TransitionNotAllowedError
	if errors.As(err, &transitionErr) {
		body.Allowed = make([]string, 0, len(transitionErr.Allowed))
		for _, st := range transitionErr.Allowed {
			body.Allowed = append(body.Allowed, st.String())
		}
	}
	var dependencyErr *services.DependencyViolationError
	if errors.As(err, &dependencyErr) {
		body.BlockingStep = dependencyErr.BlockingStep.String()
	}
	var evidenceErr *services.EvidenceMissingError
	if errors.As(err, &evidenceErr) {
		body.Missing = evidenceErr.Missing
	}

	if code == http.StatusInternalServerError {
		logger.WithActor(c.Request().Context(), s.logger).Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		body.Message = "internal error"
	}
	return c.JSON(code, body)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
