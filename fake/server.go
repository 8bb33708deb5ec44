// ABOUTME: In-memory Campaign Watch API for tests and local demos
// ABOUTME: Issues HS256 JWTs, enforces bearer auth, counts hits, injects faults

package fake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/rodriigosc/campaign-watch/models"
)

// PathPrefix is where the API is mounted; point clients at <url>/api.
const PathPrefix = "/api"

// Server is a stateful fake of the backend.
type Server struct {
	router *mux.Router
	secret []byte
	logger *slog.Logger
	now    func() time.Time

	tokenTTL time.Duration

	mu          sync.Mutex
	generation  int
	data        *dataset
	hits        map[string]int
	stalls      map[string]int
	drops       map[string]int
	stallLength time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock replaces time.Now for token issue times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithSecret sets the token signing key.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithStallLength caps how long a stalled request hangs.
func WithStallLength(d time.Duration) Option {
	return func(s *Server) { s.stallLength = d }
}

// BaseURL turns the root URL of a running fake into the API base URL.
func BaseURL(serverURL string) string {
	return strings.TrimRight(serverURL, "/") + PathPrefix
}

// New creates a fake API seeded with demo data.
func New(opts ...Option) *Server {
	s := &Server{
		secret:      []byte("campaign-watch-fake-secret"),
		logger:      slog.Default(),
		now:         time.Now,
		tokenTTL:    time.Hour,
		data:        newDataset(),
		hits:        make(map[string]int),
		stalls:      make(map[string]int),
		drops:       make(map[string]int),
		stallLength: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP makes the fake an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix(PathPrefix).Subrouter()
	api.Use(s.count)
	api.Use(s.faults)

	api.HandleFunc("/User/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)

	authed.HandleFunc("/User/settings", s.handleGetSettings).Methods(http.MethodGet)
	authed.HandleFunc("/User/settings/{section}", s.handlePutSettings).Methods(http.MethodPut)

	authed.HandleFunc("/Client", s.handleListClients).Methods(http.MethodGet)
	authed.HandleFunc("/Client", s.handleCreateClient).Methods(http.MethodPost)
	authed.HandleFunc("/Client/{id}", s.handleGetClient).Methods(http.MethodGet)
	authed.HandleFunc("/Client/{id}", s.handleUpdateClient).Methods(http.MethodPut)
	authed.HandleFunc("/Client/{id}", s.handleDeleteClient).Methods(http.MethodDelete)

	authed.HandleFunc("/CampaignMonitoring", s.handleListCampaigns).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/delayed", s.handleDelayedCampaigns).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/original/{client}/{campaignId}", s.handleCampaignByOriginalID).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/{id}", s.handleGetCampaign).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/{id}/metrics", s.handleCampaignMetrics).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/{id}/diagnostic", s.handleCampaignDiagnostic).Methods(http.MethodGet)
	authed.HandleFunc("/CampaignMonitoring/{id}/executions", s.handleCampaignExecutions).Methods(http.MethodGet)
	authed.HandleFunc("/ExecutionMonitoring/with-errors", s.handleExecutionsWithErrors).Methods(http.MethodGet)
	authed.HandleFunc("/ExecutionMonitoring/{id}", s.handleGetExecution).Methods(http.MethodGet)

	authed.HandleFunc("/AlertConfiguration", s.handleListAlerts).Methods(http.MethodGet)
	authed.HandleFunc("/AlertConfiguration", s.handleCreateAlert).Methods(http.MethodPost)
	authed.HandleFunc("/AlertConfiguration/{id}", s.handleUpdateAlert).Methods(http.MethodPut)
	authed.HandleFunc("/AlertConfiguration/{id}", s.handleDeleteAlert).Methods(http.MethodDelete)
	authed.HandleFunc("/AlertHistory", s.handleAlertHistory).Methods(http.MethodGet)

	authed.HandleFunc("/MonitoringDashboard", s.handleDashboard).Methods(http.MethodGet)
	authed.HandleFunc("/MonitoringDashboard/upcoming-executions", s.handleUpcoming).Methods(http.MethodGet)
	authed.HandleFunc("/MonitoringDashboard/recent-issues", s.handleRecentIssues).Methods(http.MethodGet)
	authed.HandleFunc("/MonitoringDashboard/stats/by-monitoring-status", s.handleStatsByStatus).Methods(http.MethodGet)
	authed.HandleFunc("/MonitoringDashboard/stats/by-health-level", s.handleStatsByHealth).Methods(http.MethodGet)
	authed.HandleFunc("/MonitoringDashboard/stats/success-rate", s.handleSuccessRate).Methods(http.MethodGet)

	admin := authed.NewRoute().Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/User", s.handleListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/User", s.handleCreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/User/{id}", s.handleGetUser).Methods(http.MethodGet)
	admin.HandleFunc("/User/{id}", s.handleUpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/User/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	return r
}

// hitKey is "METHOD /Path" with the /api prefix removed.
func hitKey(r *http.Request) string {
	return r.Method + " " + strings.TrimPrefix(r.URL.Path, PathPrefix)
}

// Hits returns how many requests reached method and path, e.g. ("GET", "/Client").
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// ResetHits zeroes every counter.
func (s *Server) ResetHits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = make(map[string]int)
}

// StallNext makes the next n GETs to path hang until the client gives up
// (or the stall length passes), which a client with a short timeout sees
// as a timeout.
func (s *Server) StallNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalls["GET "+path] += n
}

// DropNext makes the next n GETs to path close the connection without a
// response.
func (s *Server) DropNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops["GET "+path] += n
}

// RevokeSessions invalidates every token issued so far.
func (s *Server) RevokeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[hitKey(r)]++
		s.mu.Unlock()

		s.logger.Debug("Fake API request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) faults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := hitKey(r)

		s.mu.Lock()
		stall := s.stalls[key] > 0
		if stall {
			s.stalls[key]--
		}
		drop := !stall && s.drops[key] > 0
		if drop {
			s.drops[key]--
		}
		length := s.stallLength
		s.mu.Unlock()

		switch {
		case stall:
			select {
			case <-r.Context().Done():
			case <-time.After(length):
			}
			return
		case drop:
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
					return
				}
			}
			panic(http.ErrAbortHandler)
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func (s *Server) issueToken(u models.User) (string, error) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"gen":  gen,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	gen, _ := claims["gen"].(float64)
	s.mu.Lock()
	current := s.generation
	s.mu.Unlock()
	if int(gen) != current {
		return nil, errors.New("session revoked")
	}
	return claims, nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		claims, err := s.parseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey{}).(jwt.MapClaims)
		if role, _ := claims["role"].(string); role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Only administrators can manage users")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func subject(r *http.Request) string {
	claims, _ := r.Context().Value(claimsKey{}).(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	return sub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeValidation answers 400 in the problem details shape the real API uses.
func writeValidation(w http.ResponseWriter, errs map[string][]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"title":  "One or more validation errors occurred.",
		"status": http.StatusBadRequest,
		"errors": errs,
	})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
