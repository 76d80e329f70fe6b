// Package api exposes the catalogue to frontends over REST.
package api

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lushplayer/catalogue/internal/catalogue"
	"github.com/lushplayer/catalogue/internal/logger"
	"github.com/lushplayer/catalogue/internal/models"
	"github.com/lushplayer/catalogue/internal/schedule"
)

// CatalogueService is the slice of the catalogue client the API consumes.
// Declared here so handlers can be tested against a fake.
type CatalogueService interface {
	FetchProgrammes(ctx context.Context, media models.Media) ([]models.Programme, error)
	FetchProgrammesByChannel(ctx context.Context, channel models.Channel, media *models.Media) ([]models.Programme, error)
	FetchProgrammesByTag(ctx context.Context, tagValue string) ([]models.Programme, error)
	FetchDetails(ctx context.Context, programme models.Programme) (models.Programme, error)
	FetchLivePlaylist(ctx context.Context) (string, error)
	Search(ctx context.Context, term string) ([]models.SearchResult, error)
	FetchChannels(ctx context.Context) ([]models.Channel, error)
	FetchEvents(ctx context.Context) ([]models.Event, error)
	FetchEventProgrammes(ctx context.Context, event models.Event) ([]models.Programme, error)
	Cache() *catalogue.Cache
	PolicyKey() string
}

// PlaybackCatalogue resolves a live playlist ID to its raw schedule entries.
// The implementation lives with the third-party playback SDK and is injected.
type PlaybackCatalogue interface {
	ResolvePlaylist(ctx context.Context, playlistID string) ([]schedule.RawEntry, error)
}

// Server represents the API server
type Server struct {
	router   *gin.Engine
	service  CatalogueService
	playback PlaybackCatalogue
	logger   *logger.Logger
}

// NewServer creates a new API server instance
func NewServer(service CatalogueService, playback PlaybackCatalogue) *Server {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(errorHandlerMiddleware())
	router.Use(cors.Default())

	s := &Server{
		router:   router,
		service:  service,
		playback: playback,
		logger:   logger.APILogger(),
	}

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the gin engine, primarily for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/programmes", s.listProgrammes)
		v1.GET("/programmes/:id", s.programmeDetail)

		v1.GET("/channels", s.listChannels)
		v1.GET("/channels/:tag/programmes", s.channelProgrammes)

		v1.GET("/tags/:value/programmes", s.tagProgrammes)

		v1.GET("/search", s.search)

		v1.GET("/events", s.listEvents)
		v1.GET("/events/:id", s.eventProgrammes)

		v1.GET("/live", s.livePlaylist)
		v1.GET("/live/now", s.liveNow)
	}
}
