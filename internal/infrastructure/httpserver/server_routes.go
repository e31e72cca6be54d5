package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	catalog := api.Group("/catalog")
	catalog.GET("/products", s.listProducts)
	catalog.GET("/collections", s.listCollections)
	catalog.GET("/best-sellers", s.listBestSellers)
	catalog.GET("/cache", s.getCacheStatus)
	catalog.DELETE("/cache", s.invalidateCache, s.middleware.JWT.RequireOperator())

	member := api.Group("")
	member.Use(s.middleware.JWT.RequireMember())

	favorites := member.Group("/favorites")
	favorites.GET("", s.listFavorites)
	favorites.POST("", s.addFavorite)
	favorites.DELETE("", s.clearFavorites)
	favorites.POST("/toggle", s.toggleFavorite)
	favorites.GET("/count", s.countFavorites)
	favorites.GET("/stream", s.streamFavorites)
	favorites.GET("/:id", s.getFavorite)
	favorites.DELETE("/:id", s.removeFavorite)

	recent := member.Group("/recently-viewed")
	recent.GET("", s.listRecentlyViewed)
	recent.POST("", s.addRecentlyViewed)
	recent.DELETE("", s.clearRecentlyViewed)
}
