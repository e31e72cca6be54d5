package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	customMiddleware "github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver/middleware"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/metrics"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
}

type ServerDeps struct {
	Catalog        ports.CatalogService
	Favorites      ports.FavoritesResolver
	RecentlyViewed ports.RecentlyViewedResolver
	Authenticator  ports.MemberAuthenticator
	HealthCheckers []ports.HealthChecker
	HTTPMetrics    *metrics.HTTPMetrics
	// Gatherer backs /metrics; defaults to the prometheus default gatherer.
	Gatherer prometheus.Gatherer
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	catalog        ports.CatalogService
	favorites      ports.FavoritesResolver
	recentlyViewed ports.RecentlyViewedResolver
	gatherer       prometheus.Gatherer
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if deps.HTTPMetrics == nil {
		deps.HTTPMetrics = metrics.NewHTTPMetrics(prometheus.NewRegistry())
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		catalog:        deps.Catalog,
		favorites:      deps.Favorites,
		recentlyViewed: deps.RecentlyViewed,
		gatherer:       deps.Gatherer,
		healthCheckers: deps.HealthCheckers,
		middleware:     customMiddleware.NewMiddlewareCollection(deps.Authenticator, logger, deps.HTTPMetrics),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
