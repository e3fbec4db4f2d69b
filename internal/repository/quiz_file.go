package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// QuizFileRepository keeps every quiz in a single JSON file that is read and
// written as a whole. A mutex serialises read-modify-write cycles so concurrent
// requests cannot lose each other's updates.
type QuizFileRepository struct {
	mu   sync.Mutex
	path string
}

// NewQuizFileRepository creates a repository backed by the file at path.
// The file and its directory are created on first write.
func NewQuizFileRepository(path string) *QuizFileRepository {
	return &QuizFileRepository{path: path}
}

// List returns all quizzes in insertion order.
func (r *QuizFileRepository) List(_ context.Context) ([]*entities.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// GetByID returns the quiz with the given id.
func (r *QuizFileRepository) GetByID(_ context.Context, id string) (*entities.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, q := range quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, entities.ErrQuizNotFound
}

// Create appends q to the collection.
func (r *QuizFileRepository) Create(_ context.Context, q *entities.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load()
	if err != nil {
		return err
	}

	for _, existing := range quizzes {
		if existing.ID == q.ID {
			return entities.ErrQuizExists
		}
	}

	return r.save(append(quizzes, q))
}

// Update loads the quiz with the given id, lets fn modify it and writes the
// collection back. Nothing is written when fn returns an error.
func (r *QuizFileRepository) Update(_ context.Context, id string, fn func(q *entities.Quiz) error) (*entities.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, q := range quizzes {
		if q.ID != id {
			continue
		}

		if err := fn(q); err != nil {
			return nil, err
		}
		q.ID = id
		q.Version++

		if err := r.save(quizzes); err != nil {
			return nil, err
		}
		return q, nil
	}

	return nil, entities.ErrQuizNotFound
}

// Delete removes the quiz with the given id.
func (r *QuizFileRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load()
	if err != nil {
		return err
	}

	kept := quizzes[:0]
	for _, q := range quizzes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}

	if len(kept) == len(quizzes) {
		return entities.ErrQuizNotFound
	}

	return r.save(kept)
}

// load reads the collection. A missing file is an empty collection. A corrupt
// file is moved aside and also read as empty, so the next write cannot destroy it.
func (r *QuizFileRepository) load() ([]*entities.Quiz, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*entities.Quiz{}, nil
		}
		return nil, fmt.Errorf("read quizzes: %w", err)
	}

	var quizzes []*entities.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().UnixNano())
		if renameErr := os.Rename(r.path, backup); renameErr != nil {
			return nil, fmt.Errorf("move corrupt quizzes file: %w", renameErr)
		}
		return []*entities.Quiz{}, nil
	}

	if quizzes == nil {
		quizzes = []*entities.Quiz{}
	}
	return quizzes, nil
}

// save writes the collection to a temp file and renames it over the old one.
func (r *QuizFileRepository) save(quizzes []*entities.Quiz) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(quizzes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quizzes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write quizzes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace quizzes file: %w", err)
	}
	return nil
}
