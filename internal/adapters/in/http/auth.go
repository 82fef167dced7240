package http

import (
	"errors"
	"net/http"
	"strings"

	"fulfillment/internal/core/domain/model/order"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// ActorAuth resolves the acting role for state-changing requests.
//
// With a secret configured it expects an HS256 bearer token carrying a "role"
// claim. Without a secret (local development) it falls back to the
// X-Actor-Role header, defaulting to customer.
type ActorAuth struct {
	secret []byte
}

// NewActorAuth creates the middleware. An empty secret enables the
// development header fallback.
func NewActorAuth(secret string) *ActorAuth {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &ActorAuth{secret: key}
}

// Middleware returns the echo middleware function.
func (a *ActorAuth) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := a.resolve(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

// RequireActor returns a middleware allowing only the named roles.
// Must run after Middleware.
func RequireActor(allowed ...order.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor := actorFromContext(ctx)
			for _, role := range allowed {
				if actor == role {
					return next(ctx)
				}
			}
			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "insufficient role",
			})
		}
	}
}

func (a *ActorAuth) resolve(ctx echo.Context) (order.Actor, error) {
	if a.secret == nil {
		role := ctx.Request().Header.Get("X-Actor-Role")
		if role == "" {
			return order.ActorCustomer, nil
		}
		return order.ActorFromString(role)
	}

	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", errors.New("missing bearer token")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", errors.New("invalid token")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("token has no role claim")
	}

	return order.ActorFromString(role)
}

func actorFromContext(ctx echo.Context) order.Actor {
	if actor, ok := ctx.Get(actorContextKey).(order.Actor); ok {
		return actor
	}
	return order.ActorCustomer
}
