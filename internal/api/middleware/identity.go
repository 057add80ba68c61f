package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/api/metrics"
	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// identityKey is the echo context key the resolved identity is stored under.
const identityKey = "identity"

// Identity resolves the caller from HTTP Basic credentials, where the
// username is the asserted email and the password the bearer credential (an
// access token or the guest sentinel), and injects the result into the
// request context.
// Paths exempt from access control skip resolution entirely.
func Identity(resolver ports.SessionResolver, authorizer ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authorizer.Bypassed(c.Request().URL.Path) {
				return next(c)
			}

			username, credential, _ := c.Request().BasicAuth()

			start := time.Now()
			identity, err := resolver.Resolve(c.Request().Context(), username, credential)
			metrics.SessionResolveDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.SessionResolutionsTotal.WithLabelValues("error").Inc()
				return err
			}

			result := "ok"
			if identity.Role == domain.RoleGuest {
				result = "guest"
			}
			metrics.SessionResolutionsTotal.WithLabelValues(result).Inc()

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom extracts the identity stored by the Identity middleware.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}
