package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/infra/sqlite"
	"github.com/aliskhannn/japan-trivia/internal/repository"
	"github.com/aliskhannn/japan-trivia/internal/storage"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestSessionService(kv repository.KeyValueStore) *SessionService {
	svc := NewSessionService(repository.NewSessionRepository(kv), zap.NewNop())
	svc.ids = newIDGenerator(func() time.Time { return fixedNow })
	return svc
}

func result(category entities.Category, score, total, skipped int) entities.SessionResult {
	return entities.SessionResult{Category: category, Score: score, Total: total, Skipped: skipped}
}

func TestSessionService_RecordSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(storage.NewMemoryKV())

	first, err := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 7, 10, 1))
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if first.Percentage != 70 || first.Incorrect() != 2 {
		t.Fatalf("unexpected review %+v", first)
	}
	if first.Questions == nil {
		t.Fatal("Questions must be an empty list, not nil")
	}

	second, err := svc.RecordSession(ctx, 1, result(entities.CategoryHistory, 2, 3, 0))
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if second.Percentage != 67 {
		t.Fatalf("Percentage = %d, want 67", second.Percentage)
	}

	a, _ := strconv.ParseInt(first.ID, 10, 64)
	b, _ := strconv.ParseInt(second.ID, 10, 64)
	if b <= a {
		t.Fatalf("ids must increase: %s then %s", first.ID, second.ID)
	}
	if !second.Date.After(first.Date) {
		t.Fatal("dates must increase with ids")
	}

	reviews := svc.Reviews(ctx, 1)
	history := svc.History(ctx, 1)
	if len(reviews) != 2 || len(history) != 2 {
		t.Fatalf("got %d reviews and %d history entries, want 2 each", len(reviews), len(history))
	}
	if reviews[0].ID != second.ID || history[0].ID != second.ID {
		t.Fatal("lists must be most recent first")
	}
	if history[1] != first.History() {
		t.Fatalf("history entry %+v does not mirror review", history[1])
	}

	if got := svc.Reviews(ctx, 2); len(got) != 0 {
		t.Fatal("lists must be scoped per user")
	}
}

func TestSessionService_RecordSessionRejects(t *testing.T) {
	svc := newTestSessionService(storage.NewMemoryKV())

	tests := []struct {
		name string
		in   entities.SessionResult
		want error
	}{
		{"empty session", result(entities.CategoryFood, 0, 0, 0), ErrEmptySession},
		{"score above total", result(entities.CategoryFood, 5, 4, 0), ErrInvalidSession},
		{"negative skipped", result(entities.CategoryFood, 1, 4, -1), ErrInvalidSession},
		{"score plus skipped above total", result(entities.CategoryFood, 3, 4, 2), ErrInvalidSession},
		{"negative total", result(entities.CategoryFood, 0, -1, 0), ErrInvalidSession},
		{"unknown category", result("sports", 1, 1, 0), ErrInvalidSession},
		{"questions shorter than total", withOutcomes(result(entities.CategoryFood, 1, 2, 0), answered(1, 1)), ErrInvalidSession},
		{"score disagrees with questions", withOutcomes(result(entities.CategoryFood, 1, 1, 0), answered(2, 1)), ErrInvalidSession},
		{"skipped disagrees with questions", withOutcomes(result(entities.CategoryFood, 0, 1, 0), skippedOutcome()), ErrInvalidSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordSession(context.Background(), 1, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if len(svc.Reviews(context.Background(), 1)) != 0 {
		t.Fatal("rejected sessions must not be stored")
	}
}

func answered(answer, correct int) entities.QuestionOutcome {
	return entities.QuestionOutcome{
		QuestionID: "q" + strconv.Itoa(correct), Options: []string{"a", "b", "c", "d"},
		UserAnswer: &answer, CorrectAnswer: correct,
	}
}

func skippedOutcome() entities.QuestionOutcome {
	return entities.QuestionOutcome{QuestionID: "qs", Options: []string{"a", "b", "c", "d"}}
}

func withOutcomes(r entities.SessionResult, outcomes ...entities.QuestionOutcome) entities.SessionResult {
	r.Questions = outcomes
	return r
}

func TestSessionService_RecordSessionGradesOutcomes(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(storage.NewMemoryKV())

	wrong := answered(3, 0)
	wrong.IsCorrect = true
	right := answered(2, 2)
	right.IsCorrect = false
	skipped := skippedOutcome()
	skipped.IsCorrect = true

	in := withOutcomes(result(entities.CategoryRandom, 1, 3, 1), wrong, right, skipped)
	r, err := svc.RecordSession(ctx, 1, in)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if r.Category != entities.CategoryRandom {
		t.Fatalf("Category = %q", r.Category)
	}
	for i, want := range []bool{false, true, false} {
		if r.Questions[i].IsCorrect != want {
			t.Fatalf("question %d: IsCorrect = %v, want %v", i, r.Questions[i].IsCorrect, want)
		}
	}
	if !in.Questions[0].IsCorrect {
		t.Fatal("caller's outcomes must not be modified")
	}

	stored, err := svc.ReviewByID(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("ReviewByID: %v", err)
	}
	if stored.Questions[0].IsCorrect || !stored.Questions[1].IsCorrect {
		t.Fatalf("stored outcomes were not graded: %+v", stored.Questions)
	}
}

func TestSessionService_ListsAreCapped(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(storage.NewMemoryKV())

	var firstID, lastID string
	for i := 0; i < entities.MaxStoredSessions+5; i++ {
		r, err := svc.RecordSession(ctx, 1, result(entities.CategoryCulture, 1, 2, 0))
		if err != nil {
			t.Fatalf("RecordSession %d: %v", i, err)
		}
		if i == 0 {
			firstID = r.ID
		}
		lastID = r.ID
	}

	reviews := svc.Reviews(ctx, 1)
	history := svc.History(ctx, 1)
	if len(reviews) != entities.MaxStoredSessions || len(history) != entities.MaxStoredSessions {
		t.Fatalf("got %d reviews and %d history entries", len(reviews), len(history))
	}
	if reviews[0].ID != lastID {
		t.Fatal("newest session must be first")
	}
	for _, r := range reviews {
		if r.ID == firstID {
			t.Fatal("oldest session must have been evicted")
		}
	}
}

func TestSessionService_ReviewByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(storage.NewMemoryKV())

	answer := 1
	in := result(entities.CategoryLanguage, 1, 1, 0)
	in.Questions = []entities.QuestionOutcome{
		entities.NewQuestionOutcome(entities.ExportQuiz{
			ID: "q1", Question: "How do you say thank you?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1,
		}, &answer),
	}
	r, err := svc.RecordSession(ctx, 1, in)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	got, err := svc.ReviewByID(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("ReviewByID: %v", err)
	}
	if len(got.Questions) != 1 || !got.Questions[0].IsCorrect {
		t.Fatalf("unexpected questions %+v", got.Questions)
	}

	if _, err := svc.ReviewByID(ctx, 1, "nope"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("err = %v, want ErrReviewNotFound", err)
	}

	if err := svc.ClearReviews(ctx, 1); err != nil {
		t.Fatalf("ClearReviews: %v", err)
	}
	if len(svc.Reviews(ctx, 1)) != 0 {
		t.Fatal("reviews were not cleared")
	}
	if len(svc.History(ctx, 1)) != 1 {
		t.Fatal("clearing reviews must keep history")
	}
}

func TestSessionService_RecentSessionsAndStatistics(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(storage.NewMemoryKV())

	for _, r := range []entities.SessionResult{
		result(entities.CategoryFood, 3, 4, 0),
		result(entities.CategoryFood, 1, 4, 1),
		result(entities.CategoryHistory, 5, 5, 0),
	} {
		if _, err := svc.RecordSession(ctx, 9, r); err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	recent := svc.RecentSessions(ctx, 9, 2)
	if len(recent) != 2 || recent[0].Category != entities.CategoryHistory {
		t.Fatalf("RecentSessions = %+v", recent)
	}
	if got := svc.RecentSessions(ctx, 9, 50); len(got) != 3 {
		t.Fatalf("got %d, want all 3", len(got))
	}
	if got := svc.RecentSessions(ctx, 9, 0); len(got) != 0 {
		t.Fatalf("got %d, want 0", len(got))
	}

	stats := svc.Statistics(ctx, 9)
	if stats.TotalQuizzes != 3 || stats.TotalCorrect != 9 || stats.TotalQuestions != 13 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AveragePercentage != 69 {
		t.Fatalf("AveragePercentage = %d, want 69", stats.AveragePercentage)
	}
	if food := stats.ByCategory[entities.CategoryFood]; food == nil || food.Percentage != 50 {
		t.Fatalf("food stats = %+v", food)
	}

	if err := svc.ClearStatistics(ctx, 9); err != nil {
		t.Fatalf("ClearStatistics: %v", err)
	}
	stats = svc.Statistics(ctx, 9)
	if stats.TotalQuizzes != 0 || len(stats.ByCategory) != 0 {
		t.Fatalf("stats after clear = %+v", stats)
	}
	if len(svc.Reviews(ctx, 9)) != 3 {
		t.Fatal("clearing statistics must keep reviews")
	}
}

// failingKV fails every operation.
type failingKV struct{}

var errStorage = errors.New("storage unavailable")

func (failingKV) Get(context.Context, string) ([]byte, error)      { return nil, errStorage }
func (failingKV) Set(context.Context, string, []byte) error        { return errStorage }
func (failingKV) SetMany(context.Context, map[string][]byte) error { return errStorage }
func (failingKV) Delete(context.Context, ...string) error          { return errStorage }
func (failingKV) Keys(context.Context, string) ([]string, error)   { return nil, errStorage }
func (failingKV) Update(context.Context, []string, func(map[string][]byte) (map[string][]byte, error)) error {
	return errStorage
}

func TestSessionService_ReadFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(failingKV{})

	if got := svc.Reviews(ctx, 1); got == nil || len(got) != 0 {
		t.Fatalf("Reviews = %v, want empty list", got)
	}
	if got := svc.History(ctx, 1); got == nil || len(got) != 0 {
		t.Fatalf("History = %v, want empty list", got)
	}
	if stats := svc.Statistics(ctx, 1); stats.TotalQuizzes != 0 || stats.ByCategory == nil {
		t.Fatalf("Statistics = %+v", stats)
	}
	if _, err := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 1, 1, 0)); err == nil {
		t.Fatal("RecordSession must fail when storage is unavailable")
	}
}

func TestSessionService_CorruptListIsReplaced(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Set(ctx, "@quiz_reviews:1", []byte("not json"))
	svc := newTestSessionService(kv)

	if got := svc.Reviews(ctx, 1); len(got) != 0 {
		t.Fatalf("Reviews = %v, want empty", got)
	}
	if _, err := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 1, 1, 0)); err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if got := svc.Reviews(ctx, 1); len(got) != 1 {
		t.Fatalf("got %d reviews, want 1", len(got))
	}
}

func TestSessionService_Reconcile(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	svc := newTestSessionService(kv)
	repo := repository.NewSessionRepository(kv)

	// User 1: the latest review never made it into history.
	r1, _ := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 1, 2, 0))
	r2, _ := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 2, 2, 0))
	if err := repo.SaveHistory(ctx, 1, []entities.HistoryEntry{r1.History()}); err != nil {
		t.Fatal(err)
	}

	// User 2: reviews were written but history never was.
	reviews := []entities.QuizReview{}
	for i := 0; i < 3; i++ {
		reviews = append(reviews, entities.QuizReview{
			ID:       fmt.Sprint(100 - i),
			Category: entities.CategoryCulture,
			Date:     fixedNow.Add(-time.Duration(i) * time.Hour),
			Score:    1, Total: 2,
		})
	}
	_ = kv.Set(ctx, "@quiz_reviews:2", mustJSON(t, reviews))

	// User 3: statistics were cleared on purpose.
	_, _ = svc.RecordSession(ctx, 3, result(entities.CategoryFood, 1, 2, 0))
	_ = svc.ClearStatistics(ctx, 3)

	restored, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if restored != 4 {
		t.Fatalf("restored %d entries, want 4", restored)
	}

	h1 := svc.History(ctx, 1)
	if len(h1) != 2 || h1[0].ID != r2.ID {
		t.Fatalf("user 1 history = %+v", h1)
	}
	h2 := svc.History(ctx, 2)
	if len(h2) != 3 || h2[0].ID != "100" || h2[2].ID != "98" {
		t.Fatalf("user 2 history = %+v", h2)
	}
	if h3 := svc.History(ctx, 3); len(h3) != 0 {
		t.Fatalf("cleared history was restored: %+v", h3)
	}

	again, _ := svc.Reconcile(ctx)
	if again != 0 {
		t.Fatalf("second pass restored %d, want 0", again)
	}
}

func TestSessionService_RecordSessionSharedDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	var services []*SessionService
	for i := 0; i < 2; i++ {
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		services = append(services, newTestSessionService(sqlite.NewKV(db)))
	}

	const perService = 10
	var wg sync.WaitGroup
	errs := make(chan error, len(services)*perService)
	for _, svc := range services {
		wg.Add(1)
		go func(svc *SessionService) {
			defer wg.Done()
			for i := 0; i < perService; i++ {
				if _, err := svc.RecordSession(ctx, 1, result(entities.CategoryFood, 1, 2, 0)); err != nil {
					errs <- err
				}
			}
		}(svc)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("RecordSession: %v", err)
	}

	want := len(services) * perService
	if got := len(services[0].Reviews(ctx, 1)); got != want {
		t.Fatalf("got %d reviews, want %d", got, want)
	}
	if got := len(services[1].History(ctx, 1)); got != want {
		t.Fatalf("got %d history entries, want %d", got, want)
	}
}
