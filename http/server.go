package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"misfortune/auth"
	"misfortune/config"
	"misfortune/game"
	"misfortune/store"
)

type Server struct {
	router   *mux.Router
	handlers *Handlers
}

func NewServer(authService *auth.Service, engine *game.Engine, store store.Store, cfg *config.Config) *Server {
	router := mux.NewRouter()
	handlers := NewHandlers(authService, engine, store)

	server := &Server{
		router:   router,
		handlers: handlers,
	}

	server.setupRoutes(authService, cfg)
	return server
}

func (s *Server) setupRoutes(authService *auth.Service, cfg *config.Config) {
	// Apply global middleware
	s.router.Use(LoggingMiddleware)
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(CORSMiddleware)

	// CSRF note: SameSite=Lax on the session cookie prevents cross-site POST
	// requests from including the cookie, providing CSRF protection for all
	// state-changing endpoints without needing a token-based scheme.

	// Rate limiters for auth endpoints
	loginLimiter := NewRateLimiter(cfg.LoginRatePerMin, cfg.LoginBurst)
	registerLimiter := NewRateLimiter(cfg.RegisterRatePerMin, cfg.RegisterBurst)

	// Auth routes (public) with rate limiting
	s.router.Handle("/api/auth/register", registerLimiter.Middleware(http.HandlerFunc(s.handlers.Register))).Methods("POST")
	s.router.Handle("/api/auth/login", loginLimiter.Middleware(http.HandlerFunc(s.handlers.Login))).Methods("POST")

	// Game routes resolve the caller's identity when present but stay open
	// to anonymous demo players.
	public := s.router.PathPrefix("/api").Subrouter()
	public.Use(OptionalAuthMiddleware(authService))
	public.HandleFunc("/auth/session", s.handlers.Session).Methods("GET")
	public.HandleFunc("/games", s.handlers.CreateGame).Methods("POST")
	public.HandleFunc("/games/{id}", s.handlers.GetGame).Methods("GET")
	public.HandleFunc("/games/{id}/round", s.handlers.StartRound).Methods("POST")
	public.HandleFunc("/games/{id}/guess", s.handlers.SubmitGuess).Methods("POST")

	// Protected routes
	protected := s.router.PathPrefix("/api").Subrouter()
	protected.Use(AuthMiddleware(authService))
	protected.HandleFunc("/auth/logout", s.handlers.Logout).Methods("POST")
	protected.HandleFunc("/users/profile", s.handlers.Profile).Methods("GET")

	// Catch-all for unmatched API routes, returns JSON 404 instead of HTML
	s.router.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	// Card images with cache-control (no-cache forces revalidation via If-Modified-Since)
	s.router.PathPrefix("/images/").Handler(noCacheHandler(http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImagesDir)))))
}

func noCacheHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		h.ServeHTTP(w, r)
	})
}

func (s *Server) GetHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
