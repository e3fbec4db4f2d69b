package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

const (
	reviewsKeyPrefix = "@quiz_reviews:"
	historyKeyPrefix = "@quiz_history:"
)

func reviewsKey(userID int64) string { return reviewsKeyPrefix + strconv.FormatInt(userID, 10) }
func historyKey(userID int64) string { return historyKeyPrefix + strconv.FormatInt(userID, 10) }

// SessionRepository stores the review and history lists of each user.
// Both lists are kept most-recent-first.
type SessionRepository struct {
	kv KeyValueStore
}

// NewSessionRepository creates a SessionRepository on top of kv.
func NewSessionRepository(kv KeyValueStore) *SessionRepository {
	return &SessionRepository{kv: kv}
}

// Reviews returns the stored reviews of a user. A missing list is empty.
func (r *SessionRepository) Reviews(ctx context.Context, userID int64) ([]entities.QuizReview, error) {
	reviews := []entities.QuizReview{}
	if _, err := getJSON(ctx, r.kv, reviewsKey(userID), &reviews); err != nil {
		return []entities.QuizReview{}, fmt.Errorf("get reviews: %w", err)
	}
	return reviews, nil
}

// History returns the stored history of a user. A missing list is empty.
func (r *SessionRepository) History(ctx context.Context, userID int64) ([]entities.HistoryEntry, error) {
	history := []entities.HistoryEntry{}
	if _, err := getJSON(ctx, r.kv, historyKey(userID), &history); err != nil {
		return []entities.HistoryEntry{}, fmt.Errorf("get history: %w", err)
	}
	return history, nil
}

// SessionLists holds both lists of one user inside UpdateLists.
type SessionLists struct {
	Reviews []entities.QuizReview
	History []entities.HistoryEntry

	// HistoryStored reports whether a history list exists. A cleared history is
	// stored as an empty list and still counts.
	HistoryStored bool

	// ReviewsErr and HistoryErr hold decode failures. The list is empty then.
	ReviewsErr error
	HistoryErr error

	saveReviews bool
	saveHistory bool
}

// SetReviews replaces the review list.
func (l *SessionLists) SetReviews(reviews []entities.QuizReview) {
	l.Reviews = reviews
	l.saveReviews = true
}

// SetHistory replaces the history list.
func (l *SessionLists) SetHistory(history []entities.HistoryEntry) {
	l.History = history
	l.saveHistory = true
}

// UpdateLists loads both lists of a user, calls fn and writes back the lists fn
// replaced. Nothing else can write the user's lists in between, even from
// another process sharing the store.
func (r *SessionRepository) UpdateLists(ctx context.Context, userID int64, fn func(l *SessionLists) error) error {
	rk, hk := reviewsKey(userID), historyKey(userID)

	err := r.kv.Update(ctx, []string{rk, hk}, func(current map[string][]byte) (map[string][]byte, error) {
		lists := &SessionLists{
			Reviews: []entities.QuizReview{},
			History: []entities.HistoryEntry{},
		}
		if data, ok := current[rk]; ok {
			if err := decodeJSON(rk, data, &lists.Reviews); err != nil {
				lists.Reviews, lists.ReviewsErr = []entities.QuizReview{}, err
			}
		}
		if data, ok := current[hk]; ok {
			lists.HistoryStored = true
			if err := decodeJSON(hk, data, &lists.History); err != nil {
				lists.History, lists.HistoryErr = []entities.HistoryEntry{}, err
			}
		}

		if err := fn(lists); err != nil {
			return nil, err
		}

		writes := make(map[string][]byte, 2)
		if lists.saveReviews {
			data, err := json.Marshal(lists.Reviews)
			if err != nil {
				return nil, fmt.Errorf("marshal reviews: %w", err)
			}
			writes[rk] = data
		}
		if lists.saveHistory {
			data, err := json.Marshal(lists.History)
			if err != nil {
				return nil, fmt.Errorf("marshal history: %w", err)
			}
			writes[hk] = data
		}
		return writes, nil
	})
	if err != nil {
		return fmt.Errorf("update lists: %w", err)
	}
	return nil
}

// SaveHistory replaces the history list of a user.
func (r *SessionRepository) SaveHistory(ctx context.Context, userID int64, history []entities.HistoryEntry) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := r.kv.Set(ctx, historyKey(userID), data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// DeleteReviews removes the review list of a user.
func (r *SessionRepository) DeleteReviews(ctx context.Context, userID int64) error {
	if err := r.kv.Delete(ctx, reviewsKey(userID)); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}
	return nil
}

// UserIDs returns every user that has stored reviews.
func (r *SessionRepository) UserIDs(ctx context.Context) ([]int64, error) {
	keys, err := r.kv.Keys(ctx, reviewsKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list review keys: %w", err)
	}

	ids := make([]int64, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseInt(strings.TrimPrefix(k, reviewsKeyPrefix), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
