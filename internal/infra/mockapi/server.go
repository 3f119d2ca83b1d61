// Package mockapi is an in-memory stand-in for the fitness tracker API, good
// enough to run the whole demo script offline.
package mockapi

import (
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Prefix is where the API is mounted, matching the hosted deployment.
const Prefix = "/api"

type Server struct {
	store  *Store
	tokens *issuer
	log    *slog.Logger
	now    func() time.Time
	cost   int
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithSecret sets the HS256 signing key. A random key is used otherwise.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.tokens.secret = secret }
}

// WithBcryptCost lowers the hashing cost, mostly for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

func New(opts ...Option) *Server {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)

	store := NewStore()
	s := &Server{
		store:  store,
		tokens: &issuer{secret: secret, ttl: accessTTL, store: store},
		log:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens.now = s.now
	return s
}

func (s *Server) Store() *Store {
	return s.store
}

// SeedUser registers a user directly, e.g. the account the login step uses.
func (s *Server) SeedUser(username, password string) error {
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return err
	}
	_, err = s.store.AddUser(User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Demo",
		LastName:     "User",
		PasswordHash: hash,
		DateJoined:   s.now(),
	})
	return err
}

// Handler returns the router with every route mounted under Prefix.
// Trailing slashes are accepted on every path.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc(Prefix, s.handleHome).Methods(http.MethodGet)

	api := r.PathPrefix(Prefix).Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)
	api.HandleFunc("/token/refresh", s.handleRefresh).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/auth/profile", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/activities", s.handleListActivities).Methods(http.MethodGet)
	authed.HandleFunc("/activities", s.handleCreateActivity).Methods(http.MethodPost)
	authed.HandleFunc("/activities/{id:[0-9]+}", s.handleGetActivity).Methods(http.MethodGet)
	authed.HandleFunc("/activities/{id:[0-9]+}", s.handleUpdateActivity(false)).Methods(http.MethodPut)
	authed.HandleFunc("/activities/{id:[0-9]+}", s.handleUpdateActivity(true)).Methods(http.MethodPatch)
	authed.HandleFunc("/activities/{id:[0-9]+}", s.handleDeleteActivity).Methods(http.MethodDelete)
	authed.HandleFunc("/activities/history", s.handleHistory).Methods(http.MethodGet)
	authed.HandleFunc("/activities/goals", s.handleListGoals).Methods(http.MethodGet)
	authed.HandleFunc("/activities/goals", s.handleCreateGoal).Methods(http.MethodPost)
	authed.HandleFunc("/activities/goals/{id:[0-9]+}", s.handleGetGoal).Methods(http.MethodGet)
	authed.HandleFunc("/activities/goals/{id:[0-9]+}", s.handleUpdateGoal(false)).Methods(http.MethodPut)
	authed.HandleFunc("/activities/goals/{id:[0-9]+}", s.handleUpdateGoal(true)).Methods(http.MethodPatch)
	authed.HandleFunc("/activities/goals/{id:[0-9]+}", s.handleDeleteGoal).Methods(http.MethodDelete)
	authed.HandleFunc("/activities/metrics", s.handleMetrics).Methods(http.MethodGet)
	authed.HandleFunc("/activities/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, detail(`Method "`+req.Method+`" not allowed.`))
	})

	return trimSlash(r)
}

func trimSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("mockapi.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
