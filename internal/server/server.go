package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/restaurants/internal/auth"
	"github.com/idilsaglam/restaurants/internal/model"
)

// HeaderRequestID correlates a client write with the server log.
const HeaderRequestID = "X-Request-ID"

// Store is the data layer served over HTTP.
type Store interface {
	All(ctx context.Context) ([]model.Restaurant, error)
	ByID(ctx context.Context, id int) (model.Restaurant, error)
	Neighborhoods(ctx context.Context) ([]string, error)
	Cuisines(ctx context.Context) ([]string, error)
	RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error)
	UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error
}

// Server exposes a Store with the restaurant backend's routes.
type Server struct {
	router *gin.Engine
	store  Store
	log    logrus.FieldLogger
	token  string
}

// New builds the router. An empty token disables authentication.
func New(store Store, log logrus.FieldLogger, token string) *Server {
	s := &Server{
		router: gin.New(),
		store:  store,
		log:    log.WithField("component", "server"),
		token:  auth.StripBearer(strings.TrimSpace(token)),
	}
	s.router.Use(gin.Recovery(), s.requestID(), s.logRequests())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/")
	if s.token != "" {
		api.Use(s.requireToken())
	}
	api.GET("/restaurants", s.handleList)
	api.GET("/restaurants/:id", s.handleGet)
	api.PUT("/restaurants/:id", s.handleFavorite)
	api.GET("/neighborhoods", s.handleNeighborhoods)
	api.GET("/cuisines", s.handleCuisines)
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := s.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": c.GetString("request_id"),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Error("request failed")
			return
		}
		entry.Debug("request")
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := auth.StripBearer(strings.TrimSpace(c.GetHeader("Authorization")))
		if got != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleList(c *gin.Context) {
	cuisine := c.DefaultQuery("cuisine_type", model.All)
	neighborhood := c.DefaultQuery("neighborhood", model.All)
	rs, err := s.store.RestaurantsByCuisineAndNeighborhood(c.Request.Context(), cuisine, neighborhood)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	r, err := s.store.ByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleFavorite is PUT /restaurants/:id?is_favorite=true|false.
func (s *Server) handleFavorite(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	raw, present := c.GetQuery("is_favorite")
	fav, err := strconv.ParseBool(raw)
	if !present || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_favorite must be true or false"})
		return
	}
	ctx := c.Request.Context()
	if err := s.store.UpdateFavoriteStatus(ctx, id, fav); err != nil {
		s.fail(c, err)
		return
	}
	r, err := s.store.ByID(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleNeighborhoods(c *gin.Context) {
	v, err := s.store.Neighborhoods(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleCuisines(c *gin.Context) {
	v, err := s.store.Cuisines(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return 0, false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
