package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/auth"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authenticator ports.MemberAuthenticator
	logger        *logrus.Logger
}

func NewJWTMiddleware(authenticator ports.MemberAuthenticator, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authenticator: authenticator, logger: logger}
}

// RequireMember validates the bearer token and sets the member context.
func (m *JWTMiddleware) RequireMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := m.authenticate(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireOperator admits only tokens carrying the operator role.
func (m *JWTMiddleware) RequireOperator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := m.AuthorizeOperator(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// AuthorizeOperator returns 401 without a valid token and 403 when the token lacks the operator role.
func (m *JWTMiddleware) AuthorizeOperator(c echo.Context) error {
	claims, err := m.authenticate(c)
	if err != nil {
		return err
	}
	if !claims.IsOperator() {
		if m.logger != nil {
			m.logger.WithFields(logrus.Fields{"member_id": claims.MemberID(), "path": c.Request().URL.Path}).Warn("operator role required")
		}
		return echo.NewHTTPError(http.StatusForbidden, "operator role required")
	}
	return nil
}

func (m *JWTMiddleware) authenticate(c echo.Context) (*auth.MemberClaims, error) {
	tokenString, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.authenticator.ValidateToken(c.Request().Context(), tokenString)
	if err != nil {
		if m.logger != nil {
			m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
		}
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	helpers.SetMemberID(c, claims.MemberID())
	if claims.Email != "" {
		helpers.SetMemberEmail(c, claims.Email)
	}

	if m.logger != nil {
		m.logger.WithFields(logrus.Fields{"member_id": claims.MemberID()}).Debug("jwt validated and member context set")
	}
	return claims, nil
}
