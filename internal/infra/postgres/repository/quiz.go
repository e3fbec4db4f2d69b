package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/infra/postgres"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS quizzes (
		id             TEXT PRIMARY KEY,
		question       TEXT        NOT NULL,
		options        TEXT[]      NOT NULL,
		correct_answer SMALLINT    NOT NULL,
		explanation    TEXT        NOT NULL DEFAULT '',
		difficulty     TEXT        NOT NULL,
		category       TEXT        NOT NULL,
		tags           TEXT[]      NOT NULL DEFAULT '{}',
		review_status  TEXT        NOT NULL,
		review_notes   TEXT        NOT NULL DEFAULT '',
		has_similar    BOOLEAN,
		version        BIGINT      NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS quizzes_review_status_idx ON quizzes (review_status);
`

const selectColumns = `
	SELECT id, question, options, correct_answer, explanation, difficulty, category,
	       tags, review_status, review_notes, has_similar, version, created_at, updated_at
	FROM quizzes
`

// QuizRepository stores quiz records in PostgreSQL.
type QuizRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewQuizRepository creates a new QuizRepository. Updates run through tr.
func NewQuizRepository(db postgres.DBTX, tr *postgres.Transactor) *QuizRepository {
	return &QuizRepository{db: db, tr: tr}
}

// EnsureSchema creates the quizzes table when it does not exist.
func (r *QuizRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure quizzes schema: %w", err)
	}
	return nil
}

// List returns all quizzes ordered by creation time.
func (r *QuizRepository) List(ctx context.Context) ([]*entities.Quiz, error) {
	rows, err := r.db.Query(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []*entities.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quizzes: %w", err)
	}

	return quizzes, nil
}

// GetByID retrieves a quiz by id.
// Returns entities.ErrQuizNotFound if it does not exist.
func (r *QuizRepository) GetByID(ctx context.Context, id string) (*entities.Quiz, error) {
	return getByID(ctx, r.db, id, false)
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *entities.Quiz) error {
	query := `
		INSERT INTO quizzes (
			id, question, options, correct_answer, explanation, difficulty, category,
			tags, review_status, review_notes, has_similar, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		q.ID,
		q.Question,
		q.Options,
		q.CorrectAnswer,
		q.Explanation,
		string(q.Difficulty),
		string(q.Category),
		q.Tags,
		string(q.ReviewStatus),
		q.ReviewNotes,
		q.HasSimilar,
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entities.ErrQuizExists
		}
		return fmt.Errorf("create quiz: %w", err)
	}

	q.Version = 1
	return nil
}

// Update loads the quiz with a row lock, applies fn and writes the record back.
// The write is conditional on the version read, so a concurrent writer that
// bypassed the lock surfaces as entities.ErrVersionConflict.
func (r *QuizRepository) Update(ctx context.Context, id string, fn func(q *entities.Quiz) error) (*entities.Quiz, error) {
	var updated *entities.Quiz

	err := r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		q, err := getByID(ctx, tx, id, true)
		if err != nil {
			return err
		}

		version := q.Version
		if err := fn(q); err != nil {
			return err
		}
		q.ID = id

		query := `
			UPDATE quizzes
			SET question = $1, options = $2, correct_answer = $3, explanation = $4,
			    difficulty = $5, category = $6, tags = $7, review_status = $8,
			    review_notes = $9, has_similar = $10, updated_at = $11, version = version + 1
			WHERE id = $12 AND version = $13
			RETURNING version
		`

		err = tx.QueryRow(
			ctx,
			query,
			q.Question,
			q.Options,
			q.CorrectAnswer,
			q.Explanation,
			string(q.Difficulty),
			string(q.Category),
			q.Tags,
			string(q.ReviewStatus),
			q.ReviewNotes,
			q.HasSimilar,
			q.UpdatedAt,
			id,
			version,
		).Scan(&q.Version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrVersionConflict
			}
			return fmt.Errorf("update quiz: %w", err)
		}

		updated = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a quiz by id.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrQuizNotFound
	}
	return nil
}

func getByID(ctx context.Context, db postgres.DBTX, id string, forUpdate bool) (*entities.Quiz, error) {
	query := selectColumns + ` WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	q, err := scanQuiz(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

func scanQuiz(row pgx.Row) (*entities.Quiz, error) {
	var (
		q                                  entities.Quiz
		difficulty, category, reviewStatus string
		createdAt, updatedAt               time.Time
	)

	err := row.Scan(
		&q.ID,
		&q.Question,
		&q.Options,
		&q.CorrectAnswer,
		&q.Explanation,
		&difficulty,
		&category,
		&q.Tags,
		&reviewStatus,
		&q.ReviewNotes,
		&q.HasSimilar,
		&q.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Difficulty = entities.Difficulty(difficulty)
	q.Category = entities.Category(category)
	q.ReviewStatus = entities.ReviewStatus(reviewStatus)
	q.CreatedAt = createdAt.UTC()
	q.UpdatedAt = updatedAt.UTC()
	return &q, nil
}
