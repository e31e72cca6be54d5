package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver/helpers"
)

// HeaderXCache reports where a catalog response came from.
const HeaderXCache = "X-Cache"

const maxBestSellers = 50

type listResponse[T any] struct {
	Items  []T          `json:"items"`
	Count  int          `json:"count"`
	Origin ports.Origin `json:"origin,omitempty"`
}

func respondList[T any](c echo.Context, res ports.LoadResult[T]) error {
	c.Response().Header().Set(HeaderXCache, string(res.Origin))
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, listResponse[T]{Items: items, Count: len(items), Origin: res.Origin})
}

func (s *Server) catalogError(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrNoCatalog) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog unavailable")
	}
	if s.logger != nil {
		s.logger.WithError(err).WithField("path", c.Path()).Error("catalog request failed")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to load catalog")
}

// refreshRequested reads ?refresh; bypassing the snapshot is reserved for operators.
func (s *Server) refreshRequested(c echo.Context) (bool, error) {
	refresh, err := helpers.QueryBool(c, "refresh")
	if err != nil || !refresh {
		return false, err
	}
	if err := s.middleware.JWT.AuthorizeOperator(c); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Server) listProducts(c echo.Context) error {
	refresh, err := s.refreshRequested(c)
	if err != nil {
		return err
	}
	withInventory, err := helpers.QueryBool(c, "inventory")
	if err != nil {
		return err
	}
	opts := ports.LoadOptions{ForceRefresh: refresh}

	var res ports.LoadResult[catalog.Product]
	if withInventory {
		res, err = s.catalog.ProductsWithInventory(c.Request().Context(), opts)
	} else {
		res, err = s.catalog.Products(c.Request().Context(), opts)
	}
	if err != nil {
		return s.catalogError(c, err)
	}
	return respondList(c, res)
}

func (s *Server) listCollections(c echo.Context) error {
	refresh, err := s.refreshRequested(c)
	if err != nil {
		return err
	}
	res, err := s.catalog.Collections(c.Request().Context(), ports.LoadOptions{ForceRefresh: refresh})
	if err != nil {
		return s.catalogError(c, err)
	}
	return respondList(c, res)
}

func (s *Server) listBestSellers(c echo.Context) error {
	limit, err := helpers.QueryLimit(c, "limit", maxBestSellers)
	if err != nil {
		return err
	}
	res, err := s.catalog.BestSellers(c.Request().Context(), limit)
	if err != nil {
		return s.catalogError(c, err)
	}
	return respondList(c, res)
}

func (s *Server) getCacheStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Status(c.Request().Context()))
}

func (s *Server) invalidateCache(c echo.Context) error {
	if err := s.catalog.Invalidate(c.Request().Context()); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("failed to invalidate catalog cache")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear catalog cache")
	}
	return c.NoContent(http.StatusNoContent)
}
