// Package http serves the milestone engine over a JSON API built on echo.
// Requests are authenticated with bearer tokens and validated against the
// embedded OpenAPI document before they reach the use cases.
package http

import (
	"errors"
	"net/http"

	"exportflow/internal/adapters/out/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// RouterOptions configure NewRouter. Metrics is optional.
type RouterOptions struct {
	Server        *Server
	Authenticator *Authenticator
	Metrics       *metrics.Metrics
	LogLevel      log.Lvl
}

// NewRouter builds the echo instance with every route of the service:
//   - /health and /metrics, unauthenticated
//   - /docs/* with the Swagger UI
//   - /api/v1/... behind authentication and request validation
func NewRouter(opts RouterOptions) (*echo.Echo, error) {
	if opts.Server == nil || opts.Authenticator == nil {
		return nil, errors.New("server and authenticator are required")
	}

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	docs, err := SwaggerHandler(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(opts.LogLevel)
	e.HTTPErrorHandler = errorHandler(e)

	e.Use(middleware.Recover())
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/docs/*", docs)

	RegisterHandlers(e, opts.Server, opts.Authenticator.Middleware(), validator)
	return e, nil
}

// errorHandler renders echo's own errors (unknown routes, bad parameters)
// in the Error shape.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			e.Logger.Error(err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, Error{Code: code, Message: message})
	}
}
