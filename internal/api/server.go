// Package api provides the HTTP server of the game catalog: server-rendered
// HTML pages and a JSON API under /api/v1.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/id"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// apiPrefix is where the JSON API and its documentation live.
const apiPrefix = "/api/v1"

// Options tune the HTTP surface.
type Options struct {
	SecureCookies      bool
	CORSAllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	routes       *Routes
	router       *chi.Mux
	api          huma.API
	pages        *pages
	sessions     *auth.SessionService
	loginLimiter *RateLimiter
	validator    *validation.Validator
	opts         Options
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables login throttling.
func NewServer(
	services *Services,
	sessions *auth.SessionService,
	loginLimiter *RateLimiter,
	v *validation.Validator,
	opts Options,
	log *slog.Logger,
) (*Server, error) {
	if log == nil {
		log = logger.Discard().Logger
	}
	if v == nil {
		v = validation.New()
	}

	pg, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		services:     services,
		routes:       NewRoutes(),
		router:       chi.NewRouter(),
		pages:        pg,
		sessions:     sessions,
		loginLimiter: loginLimiter,
		validator:    v,
		opts:         opts,
		logger:       log,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("GameWebApp API", "1.0.0")
	config.OpenAPIPath = apiPrefix + "/openapi"
	config.DocsPath = apiPrefix + "/docs"
	config.SchemasPath = apiPrefix + "/schemas"
	config.Transformers = append(config.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, config)
	RegisterErrorHandler()

	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Routes returns the route table used to build links.
func (s *Server) Routes() *Routes {
	return s.routes
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.apiCORS())
	s.router.Use(s.loadSession)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router
	p := s.routes.Pattern

	r.Get(p(EndpointHome), s.handleHome)
	r.Get(p(EndpointAttributions), s.handleAttributions)

	r.Get(p(EndpointGames), s.handleGames)
	r.Get(p(EndpointGameSearch), s.handleSearch)
	r.Get(p(EndpointGame), s.handleGame)
	r.Get(p(EndpointGenre), s.handleGenre)
	r.Get(p(EndpointPublisher), s.handlePublisher)

	r.Get(p(EndpointRegister), s.handleRegisterForm)
	r.Get(p(EndpointLogin), s.handleLoginForm)
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.loginLimiter, s.logger))
		r.Post(p(EndpointRegister), s.handleRegister)
		r.Post(p(EndpointLogin), s.handleLogin)
	})
	r.Get(p(EndpointLogout), s.handleLogout)
	r.Post(p(EndpointLogout), s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Post(p(EndpointWishlistAdd), s.handleWishlistAdd)
		r.Post(p(EndpointWishlistDel), s.handleWishlistRemove)
		r.Get(p(EndpointProfile), s.handleProfile)
		r.Get(p(EndpointUserProfile), s.handleUserProfile)
		r.Post(p(EndpointReviewAdd), s.handleReviewAdd)
	})

	r.NotFound(s.handleNotFound)

	s.registerHealthRoutes()
	s.registerGameRoutes()
	s.registerUserRoutes()
}

// requestID tags each request with a short ID, keeping one supplied by a proxy.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(middleware.RequestIDHeader)
		if reqID == "" {
			reqID = id.RequestID()
		}
		w.Header().Set(middleware.RequestIDHeader, reqID)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger stores a logger carrying the request's identity in context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

// apiCORS applies CORS headers to the JSON API only.
func (s *Server) apiCORS() func(http.Handler) http.Handler {
	origins := s.opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return func(next http.Handler) http.Handler {
		withCORS := handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
				withCORS.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
