package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quizhub-service/internal/app"
	"quizhub-service/internal/auth"
	"quizhub-service/internal/infra/memory"
	"quizhub-service/internal/metrics"
)

type testEnv struct {
	handler    http.Handler
	adminToken string
	userToken  string
	userID     string
	otherID    string
	checks     map[string]HealthCheck
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()

	quizzes := memory.NewQuizCache(memory.NewQuizStore(), time.Minute)
	scores := memory.NewScoreStore()
	users := memory.NewUserStore()

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	authService := app.NewAuthService(users, tokens, app.AuthOptions{BcryptCost: bcrypt.MinCost}, log)

	_, err = authService.CreateUser(ctx, "root", "pw", true)
	require.NoError(t, err)
	user, err := authService.CreateUser(ctx, "alice", "pw", false)
	require.NoError(t, err)
	other, err := authService.CreateUser(ctx, "bob", "pw", false)
	require.NoError(t, err)

	env := &testEnv{userID: user.ID, otherID: other.ID, checks: map[string]HealthCheck{}}
	env.adminToken, _, err = authService.Login(ctx, "root", "pw")
	require.NoError(t, err)
	env.userToken, _, err = authService.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	env.handler = NewRouter(Deps{
		Quizzes:      app.NewQuizService(quizzes, log),
		Scores:       app.NewScoreService(quizzes, scores, users, app.NewLeaderboardHub(), log),
		Auth:         authService,
		Log:          log,
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		HealthChecks: env.checks,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), "body: %s", rec.Body.String())
}

// seedGeo creates the Geo101 quiz through the admin API.
func (e *testEnv) seedGeo(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/quiz/add", e.adminToken, map[string]any{
		"title": "Geo101",
		"questions": []map[string]any{{
			"question":      "Which are continents?",
			"questionType":  "multiple-choice",
			"options":       []string{"A", "B", "C"},
			"correctAnswer": []string{"A", "B"},
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) firstQuestionID(t *testing.T) string {
	t.Helper()
	var quiz struct {
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	decodeBody(t, e.do(t, http.MethodGet, "/api/quiz/title/Geo101", e.adminToken, nil), &quiz)
	require.NotEmpty(t, quiz.Questions)
	return quiz.Questions[0].ID
}
