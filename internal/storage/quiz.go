// Package storage provides in-memory stores.
package storage

import (
	"sync"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// QuizStorage keeps the quiz each user is currently taking.
type QuizStorage struct {
	mu      sync.RWMutex
	quizzes map[int64]*entities.ActiveQuiz
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		quizzes: make(map[int64]*entities.ActiveQuiz),
	}
}

// Store saves the active quiz of a user, replacing any previous one.
func (s *QuizStorage) Store(userID int64, quiz *entities.ActiveQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[userID] = quiz
}

// Get retrieves the active quiz of a user.
func (s *QuizStorage) Get(userID int64) (*entities.ActiveQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[userID]
	return q, ok
}

// Update runs fn on the user's active quiz while holding the lock.
// It returns false when the user has no active quiz.
func (s *QuizStorage) Update(userID int64, fn func(q *entities.ActiveQuiz)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quizzes[userID]
	if !ok {
		return false
	}
	fn(q)
	return true
}

// Delete removes the active quiz of a user.
func (s *QuizStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, userID)
}
