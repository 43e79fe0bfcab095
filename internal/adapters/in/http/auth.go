package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/ports"
	"exportflow/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Claims are the access token fields the service reads. Tokens are issued
// by the identity provider and signed with the shared HS256 secret.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type principal struct {
	actor      kernel.Actor
	capability kernel.Capability
}

// Authenticator turns bearer tokens into actors and resolves their
// capability once per request.
type Authenticator struct {
	secret []byte
	policy ports.AuthorizationPolicy
	log    *zap.Logger
}

func NewAuthenticator(secret string, policy ports.AuthorizationPolicy, log *zap.Logger) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if policy == nil {
		return nil, errors.New("authorization policy is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{secret: []byte(secret), policy: policy, log: log}, nil
}

// Middleware rejects requests without a valid token with 401.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c.Request())
			if !ok {
				return unauthorized(c, "authorization is required")
			}

			actor, err := a.Actor(tokenString)
			if err != nil {
				a.log.Debug("token rejected", zap.Error(err))
				return unauthorized(c, "invalid or expired token")
			}

			capability, err := a.policy.Resolve(c.Request().Context(), actor)
			if err != nil {
				return c.JSON(http.StatusInternalServerError,
					Error{Code: http.StatusInternalServerError, Message: "authorization policy unavailable"})
			}

			c.Set(principalKey, principal{actor: actor, capability: capability})
			c.SetRequest(c.Request().WithContext(logger.ContextWithActor(c.Request().Context(), actor.ID())))
			return next(c)
		}
	}
}

// Actor parses and verifies tokenString. The system identity cannot be
// claimed by a token.
func (a *Authenticator) Actor(tokenString string) (kernel.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, err
	}
	if !token.Valid {
		return kernel.Actor{}, jwt.ErrTokenInvalidClaims
	}

	role, err := kernel.NewRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	if role == kernel.RoleSystem || claims.Subject == kernel.SystemActorID {
		return kernel.Actor{}, fmt.Errorf("%w: reserved identity", jwt.ErrTokenInvalidClaims)
	}
	return kernel.NewActor(claims.Subject, claims.Name, role)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: message})
}

func principalOf(c echo.Context) (kernel.Actor, kernel.Capability, bool) {
	p, ok := c.Get(principalKey).(principal)
	if !ok {
		return kernel.Actor{}, kernel.Capability{}, false
	}
	return p.actor, p.capability, true
}
