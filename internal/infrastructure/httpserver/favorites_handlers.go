package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/favorite"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver/helpers"
)

// streamKeepAlive is how often an idle event stream gets a comment line.
const streamKeepAlive = 25 * time.Second

type favoritesResponse struct {
	Items []favorite.Item `json:"items"`
	Count int             `json:"count"`
}

func newFavoritesResponse(items []favorite.Item) favoritesResponse {
	if items == nil {
		items = []favorite.Item{}
	}
	return favoritesResponse{Items: items, Count: len(items)}
}

func (s *Server) memberFavorites(c echo.Context) (ports.FavoritesService, error) {
	memberID, err := helpers.GetMemberIDFromContext(c)
	if err != nil {
		return nil, err
	}
	return s.favorites.ForMember(memberID), nil
}

func (s *Server) listFavorites(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newFavoritesResponse(store.GetAll(c.Request().Context())))
}

func (s *Server) addFavorite(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	p, err := helpers.BindProduct(c)
	if err != nil {
		return err
	}
	items, err := store.Add(c.Request().Context(), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save favorite")
	}
	return c.JSON(http.StatusCreated, newFavoritesResponse(items))
}

func (s *Server) toggleFavorite(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	p, err := helpers.BindProduct(c)
	if err != nil {
		return err
	}
	items, err := store.Toggle(c.Request().Context(), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save favorite")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"favorited": favorite.IndexOf(items, p.ID()) >= 0,
		"items":     newFavoritesResponse(items).Items,
		"count":     len(items),
	})
}

func (s *Server) removeFavorite(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	items, err := store.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to remove favorite")
	}
	return c.JSON(http.StatusOK, newFavoritesResponse(items))
}

func (s *Server) clearFavorites(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	if err := store.ClearAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear favorites")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) countFavorites(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": store.Count(c.Request().Context())})
}

func (s *Server) getFavorite(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	return c.JSON(http.StatusOK, map[string]any{"id": id, "favorited": store.Contains(c.Request().Context(), id)})
}

// streamFavorites sends the current wishlist, then every confirmed change, as server-sent events.
func (s *Server) streamFavorites(c echo.Context) error {
	store, err := s.memberFavorites(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	// latest-wins: a slow client only ever sees the newest list
	updates := make(chan []favorite.Item, 1)
	unsubscribe := store.Subscribe(func(items []favorite.Item) {
		select {
		case updates <- items:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- items:
		default:
		}
	})
	defer unsubscribe()

	_ = http.NewResponseController(c.Response().Writer).SetWriteDeadline(time.Time{})
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeFavoritesEvent(res, store.GetAll(ctx)); err != nil {
		return nil
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case items := <-updates:
			if err := writeFavoritesEvent(res, items); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeFavoritesEvent(res *echo.Response, items []favorite.Item) error {
	b, err := json.Marshal(newFavoritesResponse(items))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: favorites\ndata: %s\n\n", b); err != nil {
		return err
	}
	res.Flush()
	return nil
}
