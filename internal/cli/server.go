package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quizhub-service/internal/app"
	"quizhub-service/internal/auth"
	"quizhub-service/internal/config"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/logger"
	"quizhub-service/internal/metrics"
	transport "quizhub-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(serviceName, cfg.Log.Level)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, time.Hour))
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	quizService := app.NewQuizService(be.quizzes, log)
	scoreService := app.NewScoreService(be.quizzes, be.scores, be.users, app.NewLeaderboardHub(), log)
	authService := app.NewAuthService(be.users, tokens, app.AuthOptions{
		BcryptCost:       cfg.Auth.BcryptCost,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	}, log)

	if cfg.Storage.Driver == config.DriverMemory {
		seedSampleQuiz(ctx, quizService, log)
	}

	router := transport.NewRouter(transport.Deps{
		Quizzes:        quizService,
		Scores:         scoreService,
		Auth:           authService,
		Log:            log,
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthChecks:   be.checks,
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: leaderboard websockets are long-lived.
	}

	go func() {
		log.WithField("port", finalPort).Info("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedSampleQuiz gives the in-memory driver something to grade against.
func seedSampleQuiz(ctx context.Context, quizzes *app.QuizService, log logrus.FieldLogger) {
	_, _, err := quizzes.AddQuestions(ctx, "Sample", []domain.Question{
		{
			Prompt:        "What is 2 + 2?",
			Type:          domain.SingleChoice,
			Options:       []string{"3", "4", "5"},
			CorrectAnswer: domain.Scalar("4"),
		},
		{
			Prompt:        "Which of these are primes?",
			Type:          domain.MultipleChoice,
			Options:       []string{"2", "3", "4"},
			CorrectAnswer: domain.Set("2", "3"),
		},
	})
	if err != nil {
		log.WithError(err).Warn("sample quiz not seeded")
	}
}
