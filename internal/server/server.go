package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lightbnb/lightbnb/config"
	"github.com/lightbnb/lightbnb/internal/db"
	"github.com/lightbnb/lightbnb/internal/fixture"
	"github.com/lightbnb/lightbnb/internal/handlers"
	"github.com/lightbnb/lightbnb/internal/mq"
	"github.com/lightbnb/lightbnb/internal/services"
	"github.com/lightbnb/lightbnb/internal/store"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	log        zerolog.Logger
}

// New opens the database, builds the data-access layer and registers routes.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	repos := services.Repositories{
		Users:        store.NewUserRepository(dbConn),
		Properties:   store.NewPropertyRepository(dbConn),
		Reservations: store.NewReservationRepository(dbConn),
	}

	if cfg.PropertyBackend == config.PropertyBackendFixture {
		fixtures, err := loadFixtures(ctx, cfg)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		repos.PropertyWriter = fixtures
		repos.PropertyOwners = fixtures
		log.Info().Int("properties", len(fixtures.Properties())).Msg("writing new properties to the fixture store")
	}

	queue, err := mq.NewFromConfig(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("connect events backend: %w", err)
	}

	// A nil *mq.MQ must not become a non-nil interface.
	var events handlers.EventPublisher
	if queue != nil {
		events = queue
	}

	dal := services.NewDataAccess(repos, log)
	router := NewRouter(dal, events, log)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		log:        log,
	}, nil
}

// NewRouter registers the HTTP routes over dal.
func NewRouter(dal *services.DataAccess, events handlers.EventPublisher, log zerolog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		handlers.RequestLogger(log),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, dal, events, log)
	})
	router.Route("/properties", func(r chi.Router) {
		handlers.PropertyRouter(r, dal, events, log)
	})
	return router
}

func loadFixtures(ctx context.Context, cfg config.Config) (*fixture.Store, error) {
	source, err := fixture.NewSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	return fixture.Load(ctx, source)
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and releases the database and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		if closeErr := s.queue.Close(); closeErr != nil {
			s.log.Warn().Err(closeErr).Msg("close events backend")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
