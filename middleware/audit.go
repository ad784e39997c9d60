package middleware

import (
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyActor = "actor"

// ActorContext records who is calling and from where so services can write
// the activity log. It runs after RequireAuth.
func ActorContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyActor, services.ActorFromUser(GetCurrentUser(c), c.RealIP()))
			return next(c)
		}
	}
}

// GetActor retrieves the actor from the request
func GetActor(c echo.Context) services.Actor {
	if actor, ok := c.Get(ContextKeyActor).(services.Actor); ok {
		return actor
	}
	return services.ActorFromUser(GetCurrentUser(c), c.RealIP())
}
