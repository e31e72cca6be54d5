package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/recent"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver/helpers"
)

func (s *Server) memberRecentlyViewed(c echo.Context) (ports.RecentlyViewedService, error) {
	memberID, err := helpers.GetMemberIDFromContext(c)
	if err != nil {
		return nil, err
	}
	return s.recentlyViewed.ForMember(memberID), nil
}

func recentResponse(entries []recent.Entry) map[string]any {
	if entries == nil {
		entries = []recent.Entry{}
	}
	return map[string]any{"items": entries, "count": len(entries)}
}

func (s *Server) listRecentlyViewed(c echo.Context) error {
	list, err := s.memberRecentlyViewed(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recentResponse(list.GetAll(c.Request().Context())))
}

func (s *Server) addRecentlyViewed(c echo.Context) error {
	list, err := s.memberRecentlyViewed(c)
	if err != nil {
		return err
	}
	p, err := helpers.BindProduct(c)
	if err != nil {
		return err
	}
	entries, err := list.AddView(c.Request().Context(), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record view")
	}
	return c.JSON(http.StatusOK, recentResponse(entries))
}

func (s *Server) clearRecentlyViewed(c echo.Context) error {
	list, err := s.memberRecentlyViewed(c)
	if err != nil {
		return err
	}
	if err := list.ClearAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear recently viewed")
	}
	return c.NoContent(http.StatusNoContent)
}
