package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aliskhannn/japan-trivia/internal/ai"
	"github.com/aliskhannn/japan-trivia/internal/auth"
	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/repository"
	"github.com/aliskhannn/japan-trivia/internal/service"
	"github.com/aliskhannn/japan-trivia/internal/storage"
)

type fakeGenerator struct {
	inputs []entities.QuizInput
	err    error
}

func (g *fakeGenerator) Generate(context.Context, entities.GenerationRequest) ([]entities.QuizInput, error) {
	return g.inputs, g.err
}

type testServer struct {
	srv       *httptest.Server
	token     string
	generator *fakeGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	quizzes := service.NewQuizService(
		repository.NewQuizFileRepository(filepath.Join(t.TempDir(), "quizzes.json")), logger,
	)
	gen := &fakeGenerator{}
	kv := storage.NewMemoryKV()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	authSvc := auth.NewService("test-secret", time.Hour)

	h := NewHandler(
		quizzes,
		service.NewGenerationService(gen, quizzes, logger),
		service.NewSessionService(repository.NewSessionRepository(kv), logger),
		service.NewSettingsService(repository.NewSettingsRepository(kv), logger),
		authSvc,
		auth.Credentials{User: "admin", PasswordHash: string(hash)},
		logger,
	)

	srv := httptest.NewServer(NewRouter(RouterConfig{CORSOrigins: []string{"*"}}, h))
	t.Cleanup(srv.Close)

	ts := &testServer{srv: srv, generator: gen}
	ts.token = ts.login(t, "admin", "s3cret")
	return ts
}

func (ts *testServer) login(t *testing.T, user, pass string) string {
	t.Helper()

	var out loginResponse
	code := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": user, "password": pass}, &out)
	if code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}
	return out.AccessToken
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (ts *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func quizInput(question string) entities.QuizInput {
	return entities.QuizInput{
		Question:      question,
		Options:       []string{"Tokyo", "Kyoto", "Nara", "Osaka"},
		CorrectAnswer: 2,
		Difficulty:    entities.DifficultyMedium,
		Category:      entities.CategoryHistory,
		Tags:          []string{"capital"},
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	if ts.token == "" {
		t.Fatal("empty token")
	}

	var out errorResponse
	code := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "nope"}, &out)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}

	code = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin"}, &out)
	if code != http.StatusBadRequest {
		t.Fatalf("missing password: status = %d, want 400", code)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	if code := ts.do(t, http.MethodGet, "/healthz", "", nil, nil); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
}

func TestQuizLifecycle(t *testing.T) {
	ts := newTestServer(t)

	if code := ts.do(t, http.MethodPost, "/api/quizzes", "", quizInput("Which city was the first capital?"), nil); code != http.StatusUnauthorized {
		t.Fatalf("create without token: status = %d", code)
	}

	var created entities.Quiz
	code := ts.do(t, http.MethodPost, "/api/quizzes", ts.token, quizInput("Which city was the first permanent capital of Japan?"), &created)
	if code != http.StatusCreated {
		t.Fatalf("create: status = %d", code)
	}
	if created.ReviewStatus != entities.ReviewStatusDraft || created.ID == "" {
		t.Fatalf("unexpected quiz %+v", created)
	}

	var invalid errorResponse
	bad := quizInput("")
	code = ts.do(t, http.MethodPost, "/api/quizzes", ts.token, bad, &invalid)
	if code != http.StatusBadRequest || len(invalid.Details) == 0 {
		t.Fatalf("invalid create: status = %d, body %+v", code, invalid)
	}

	var similar entities.Quiz
	code = ts.do(t, http.MethodPost, "/api/quizzes", ts.token, quizInput("Which city was the first permanent capital in Japan?"), &similar)
	if code != http.StatusCreated {
		t.Fatalf("create similar: status = %d", code)
	}
	if similar.HasSimilar == nil || !*similar.HasSimilar {
		t.Fatal("expected HasSimilar to be set")
	}

	var export []entities.ExportQuiz
	if code := ts.do(t, http.MethodGet, "/api/export", "", nil, &export); code != http.StatusOK || len(export) != 0 {
		t.Fatalf("export before approval: status %d, %d items", code, len(export))
	}

	var reviewed entities.Quiz
	code = ts.do(t, http.MethodPost, "/api/quizzes/"+created.ID+"/review", ts.token,
		map[string]string{"status": "approved", "notes": "checked"}, &reviewed)
	if code != http.StatusOK || reviewed.ReviewStatus != entities.ReviewStatusApproved {
		t.Fatalf("review: status = %d, quiz %+v", code, reviewed)
	}

	var updated entities.Quiz
	code = ts.do(t, http.MethodPut, "/api/quizzes/"+created.ID, ts.token, map[string]any{"explanation": "Nara was the capital from 710."}, &updated)
	if code != http.StatusOK {
		t.Fatalf("update: status = %d", code)
	}
	if updated.Explanation != "Nara was the capital from 710." || updated.ReviewStatus != entities.ReviewStatusApproved {
		t.Fatalf("unexpected update result %+v", updated)
	}

	var list []entities.Quiz
	if code := ts.do(t, http.MethodGet, "/api/quizzes?status=approved", "", nil, &list); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("filtered list: status %d, %d items", code, len(list))
	}

	resp, err := ts.srv.Client().Get(ts.srv.URL + "/api/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "quizzes.json") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if err := json.NewDecoder(resp.Body).Decode(&export); err != nil || len(export) != 1 {
		t.Fatalf("export: %v, %d items", err, len(export))
	}

	if code := ts.do(t, http.MethodDelete, "/api/quizzes/"+created.ID, ts.token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", code)
	}
	if code := ts.do(t, http.MethodGet, "/api/quizzes/"+created.ID, "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get deleted: status = %d", code)
	}
	if code := ts.do(t, http.MethodDelete, "/api/quizzes/"+created.ID, ts.token, nil, nil); code != http.StatusNotFound {
		t.Fatalf("delete twice: status = %d", code)
	}
}

func TestCheckSimilarity(t *testing.T) {
	ts := newTestServer(t)

	var created entities.Quiz
	if code := ts.do(t, http.MethodPost, "/api/quizzes", ts.token, quizInput("Which castle is the oldest in Japan?"), &created); code != http.StatusCreated {
		t.Fatalf("create: status = %d", code)
	}

	var match struct {
		IsMatch   bool   `json:"isMatch"`
		MatchedID string `json:"matchedId"`
	}
	code := ts.do(t, http.MethodPost, "/api/quizzes/similarity", "", similarityRequest{Question: "Which castle is the oldest in Japan?"}, &match)
	if code != http.StatusOK || !match.IsMatch || match.MatchedID != created.ID {
		t.Fatalf("status %d, match %+v", code, match)
	}

	code = ts.do(t, http.MethodPost, "/api/quizzes/similarity", "",
		similarityRequest{Question: "Which castle is the oldest in Japan?", ExcludeID: created.ID}, &match)
	if code != http.StatusOK || match.IsMatch {
		t.Fatalf("excluded: status %d, match %+v", code, match)
	}

	if code := ts.do(t, http.MethodPost, "/api/quizzes/similarity", "", similarityRequest{}, nil); code != http.StatusBadRequest {
		t.Fatalf("empty question: status = %d", code)
	}
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t)
	ts.generator.inputs = []entities.QuizInput{
		quizInput("Which mountain is the tallest in Japan?"),
		quizInput("Which mountain is the tallest peak in Japan?"),
	}

	var out struct {
		Quizzes []service.GeneratedQuiz `json:"quizzes"`
	}
	req := map[string]any{"category": "history", "difficulty": "medium", "count": 2}
	if code := ts.do(t, http.MethodPost, "/api/generate", ts.token, req, &out); code != http.StatusOK {
		t.Fatalf("generate: status = %d", code)
	}
	if len(out.Quizzes) != 2 || !out.Quizzes[1].Similar.IsMatch {
		t.Fatalf("unexpected drafts %+v", out.Quizzes)
	}

	var verr errorResponse
	req["count"] = 21
	if code := ts.do(t, http.MethodPost, "/api/generate", ts.token, req, &verr); code != http.StatusBadRequest {
		t.Fatalf("count 21: status = %d", code)
	}

	ts.generator.err = fmt.Errorf("parse: %w", ai.ErrNotAnArray)
	req["count"] = 2
	if code := ts.do(t, http.MethodPost, "/api/generate", ts.token, req, nil); code != http.StatusBadGateway {
		t.Fatalf("bad generator output: status = %d", code)
	}

	invalid := quizInput("Which shrine has thousands of torii?")
	invalid.Options = invalid.Options[:3]
	var saved service.SaveResult
	code := ts.do(t, http.MethodPost, "/api/generate/save", ts.token,
		map[string]any{"quizzes": []entities.QuizInput{ts.generator.inputs[0], invalid}}, &saved)
	if code != http.StatusOK {
		t.Fatalf("save: status = %d", code)
	}
	if len(saved.Saved) != 1 || len(saved.Skipped) != 1 || saved.Skipped[0].Index != 1 {
		t.Fatalf("unexpected save result %+v", saved)
	}
}

func TestSessions(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/users/7"

	var review entities.QuizReview
	code := ts.do(t, http.MethodPost, base+"/sessions", "",
		entities.SessionResult{Category: entities.CategoryFood, Score: 3, Total: 4, Skipped: 1}, &review)
	if code != http.StatusCreated {
		t.Fatalf("record: status = %d", code)
	}
	if review.Percentage != 75 || review.Questions == nil {
		t.Fatalf("unexpected review %+v", review)
	}

	one, wrong := 1, 2
	outcome := entities.QuestionOutcome{QuestionID: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1}
	lying := outcome
	lying.UserAnswer, lying.IsCorrect = &wrong, true

	for _, bad := range []entities.SessionResult{
		{Category: entities.CategoryFood, Total: 0},
		{Category: entities.CategoryFood, Score: 5, Total: 4},
		{Score: 1, Total: 1},
		{Category: "sports", Score: 1, Total: 1},
		{Category: entities.CategoryFood, Score: 1, Total: 2, Questions: []entities.QuestionOutcome{lying}},
		{Category: entities.CategoryFood, Score: 1, Total: 1, Questions: []entities.QuestionOutcome{lying}},
	} {
		if code := ts.do(t, http.MethodPost, base+"/sessions", "", bad, nil); code != http.StatusBadRequest {
			t.Fatalf("%+v: status = %d, want 400", bad, code)
		}
	}

	answered := outcome
	answered.UserAnswer = &one
	var random entities.QuizReview
	code = ts.do(t, http.MethodPost, base+"/sessions", "", entities.SessionResult{
		Category: entities.CategoryRandom, Score: 1, Total: 1,
		Questions: []entities.QuestionOutcome{answered},
	}, &random)
	if code != http.StatusCreated {
		t.Fatalf("record random: status = %d", code)
	}
	if len(random.Questions) != 1 || !random.Questions[0].IsCorrect {
		t.Fatalf("outcome must be graded on the server: %+v", random.Questions)
	}
	review = random

	var stats entities.Statistics
	if code := ts.do(t, http.MethodGet, base+"/stats", "", nil, &stats); code != http.StatusOK || stats.TotalQuizzes != 2 {
		t.Fatalf("stats: status %d, %+v", code, stats)
	}

	var got entities.QuizReview
	if code := ts.do(t, http.MethodGet, base+"/reviews/"+review.ID, "", nil, &got); code != http.StatusOK || got.ID != review.ID {
		t.Fatalf("review by id: status %d", code)
	}
	if code := ts.do(t, http.MethodGet, base+"/reviews/404", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown review: status = %d", code)
	}

	if code := ts.do(t, http.MethodDelete, base+"/history", "", nil, nil); code != http.StatusNoContent {
		t.Fatalf("clear history: status = %d", code)
	}
	var history []entities.HistoryEntry
	if code := ts.do(t, http.MethodGet, base+"/history?limit=5", "", nil, &history); code != http.StatusOK || len(history) != 0 {
		t.Fatalf("history after clear: status %d, %d entries", code, len(history))
	}

	var reviews []entities.QuizReview
	if code := ts.do(t, http.MethodGet, base+"/reviews", "", nil, &reviews); code != http.StatusOK || len(reviews) != 2 {
		t.Fatalf("reviews kept after clearing history: status %d, %d", code, len(reviews))
	}

	if code := ts.do(t, http.MethodGet, "/api/users/abc/stats", "", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad user id: status = %d", code)
	}
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/users/9/settings"

	var s entities.Settings
	if code := ts.do(t, http.MethodGet, path, "", nil, &s); code != http.StatusOK || s.DefaultQuestionCount != entities.QuestionCountTen {
		t.Fatalf("defaults: status %d, %+v", code, s)
	}

	if code := ts.do(t, http.MethodPut, path, "", `{"defaultQuestionCount":"all"}`, &s); code != http.StatusOK {
		t.Fatalf("save: status = %d", code)
	}
	if code := ts.do(t, http.MethodGet, path, "", nil, &s); code != http.StatusOK || s.DefaultQuestionCount != entities.QuestionCountAll {
		t.Fatalf("after save: status %d, %+v", code, s)
	}

	if code := ts.do(t, http.MethodPut, path, "", `{"defaultQuestionCount":7}`, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid count: status = %d", code)
	}
}
