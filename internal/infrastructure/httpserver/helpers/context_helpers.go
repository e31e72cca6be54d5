package helpers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
)

func GetMemberIDFromContext(c echo.Context) (string, error) {
	id, ok := GetMemberIDRaw(c)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid member context")
	}
	return id, nil
}

func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}

// QueryBool reads a boolean query parameter; absent means false.
func QueryBool(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return b, nil
}

// QueryLimit reads a positive integer limit capped at max; absent returns 0.
func QueryLimit(c echo.Context, name string, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return min(n, max), nil
}

// BindProduct decodes the request body as a catalog product document with an id.
func BindProduct(c echo.Context) (catalog.Product, error) {
	var p catalog.Product
	if err := json.NewDecoder(c.Request().Body).Decode(&p); err != nil || p == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if p.ID() == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "product id is required")
	}
	return p, nil
}
