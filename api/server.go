// Package api implements the HTTP interface for the content agent
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"contentagent.app/config"
	apperr "contentagent.app/errors"
	"contentagent.app/models"
	"contentagent.app/repository"
	"contentagent.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router    *gin.Engine
	config    *config.Config
	generator service.ContentGenerator
	history   *repository.GenerationRepository
}

// NewServer creates and configures a new HTTP server
func NewServer(
	config *config.Config,
	generator service.ContentGenerator,
	history *repository.GenerationRepository,
) *Server {
	router := gin.Default()

	server := &Server{
		router:    router,
		config:    config,
		generator: generator,
		history:   history,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/generate", s.generate)
		api.GET("/history", s.listHistory)
	}

	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("request binding error", "error", err)
		s.handleError(c, apperr.NewValidationError("invalid request format"))
		return
	}

	slog.Info("generation requested", "topic", req.Topic)
	started := time.Now()

	pkg, path, err := s.generator.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		slog.Error("generation failed", "error", err, "topic", req.Topic)
		s.handleError(c, err)
		return
	}

	generation := &models.Generation{
		Topic:       pkg.Topic,
		OutputPath:  path,
		WordCount:   pkg.WordCount,
		SourceCount: len(pkg.Sources),
		DurationMS:  time.Since(started).Milliseconds(),
	}
	if err := s.history.Create(generation); err != nil {
		// The document is already on disk, losing the ledger row is not
		// worth failing the request over.
		slog.Warn("failed to record generation", "error", err, "topic", pkg.Topic)
	}

	c.JSON(http.StatusOK, generation)
}

func (s *Server) listHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.handleError(c, apperr.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	generations, err := s.history.ListRecent(limit)
	if err != nil {
		slog.Error("history lookup failed", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"generations": generations})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case apperr.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "Generation service unavailable"
		case apperr.SearchError:
			statusCode = http.StatusServiceUnavailable
			message = "Search sources unavailable"
		case apperr.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
