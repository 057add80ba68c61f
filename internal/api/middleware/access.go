package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/api/metrics"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// Access enforces the rule table against the identity resolved by the
// Identity middleware. Runs after it; a request that reaches this point on a
// non-bypassed path always carries an identity.
func Access(authorizer ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if authorizer.Bypassed(req.URL.Path) {
				metrics.AuthzDecisionsTotal.WithLabelValues("bypass").Inc()
				return next(c)
			}

			identity, _ := IdentityFrom(c)
			if err := authorizer.Authorize(identity, req.Method, req.URL.Path); err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues("deny").Inc()
				return err
			}

			metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
