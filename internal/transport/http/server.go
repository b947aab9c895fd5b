package http

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"quizhub-service/internal/app"
	"quizhub-service/internal/metrics"
)

// HealthCheck reports whether a backing dependency is usable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Quizzes *app.QuizService
	Scores  *app.ScoreService
	Auth    *app.AuthService
	Log     logrus.FieldLogger

	// Metrics and Gatherer default to a private registry when nil.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AllowedOrigins []string
	HealthChecks   map[string]HealthCheck
}

// Server holds the HTTP handlers of the service.
type Server struct {
	quizzes  *app.QuizService
	scores   *app.ScoreService
	auth     *app.AuthService
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	validate *validator.Validate
	upgrader websocket.Upgrader
	checks   map[string]HealthCheck
}

// NewRouter builds the complete HTTP surface, CORS included.
func NewRouter(d Deps) http.Handler {
	if d.Metrics == nil {
		reg := prometheus.NewRegistry()
		d.Metrics = metrics.New(reg)
		d.Gatherer = reg
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		quizzes:  d.Quizzes,
		scores:   d.Scores,
		auth:     d.Auth,
		log:      d.Log,
		metrics:  d.Metrics,
		validate: validator.New(),
		checks:   d.HealthChecks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.Use(s.instrument, s.authenticate)
	s.SetupRoutes(r)
	r.HandleFunc("/healthz", s.HealthFunc).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	corsHeaders := handlers.AllowedHeaders([]string{"Authorization", "Content-Type"})
	corsOrigins := handlers.AllowedOrigins(d.AllowedOrigins)
	corsMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS", "DELETE"})
	return handlers.CORS(corsHeaders, corsOrigins, corsMethods)(r)
}

func (s *Server) SetupRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.RegisterFunc).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.LoginFunc).Methods(http.MethodPost)

	api.HandleFunc("/quiz/add", s.requireAdmin(s.AddQuizFunc)).Methods(http.MethodPost)
	api.HandleFunc("/quiz/get", s.ListQuizzesFunc).Methods(http.MethodGet)
	api.HandleFunc("/quiz/ids", s.ListQuizIDsFunc).Methods(http.MethodGet)
	api.HandleFunc("/quiz/title/{title}", s.GetQuizFunc).Methods(http.MethodGet)
	api.HandleFunc("/quiz/edit/{id}", s.requireAdmin(s.EditQuestionFunc)).Methods(http.MethodPut)
	api.HandleFunc("/quiz/delete/{id}", s.requireAdmin(s.DeleteQuestionFunc)).Methods(http.MethodDelete)

	api.HandleFunc("/score/submit", s.requireUser(s.SubmitFunc)).Methods(http.MethodPost)
	api.HandleFunc("/score/leaderboard/{title}", s.LeaderboardFunc).Methods(http.MethodGet)
	api.HandleFunc("/score/{userId}", s.requireUser(s.UserScoresFunc)).Methods(http.MethodGet)

	r.HandleFunc("/ws/leaderboard", s.ServeLeaderboardWS).Methods(http.MethodGet)
}

func (s *Server) HealthFunc(w http.ResponseWriter, r *http.Request) {
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.log.WithError(err).WithField("dependency", name).Warn("health check failed")
			ReturnHTTPMessage(w, r, http.StatusServiceUnavailable, GetHTTPErrorCode(http.StatusServiceUnavailable), name+" unavailable")
			return
		}
	}
	w.Write([]byte("ok"))
}
