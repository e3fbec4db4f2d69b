package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// DatasetRepository serves a fixed set of approved quizzes loaded from an
// export file, for clients that take quizzes offline.
type DatasetRepository struct {
	quizzes []entities.ExportQuiz
}

// NewDatasetRepository loads the export file at path.
func NewDatasetRepository(path string) (*DatasetRepository, error) {
	quizzes, err := loadDataset(path)
	if err != nil {
		return nil, err
	}

	return &DatasetRepository{
		quizzes: quizzes,
	}, nil
}

// Approved returns every quiz of the dataset.
func (r *DatasetRepository) Approved(_ context.Context) ([]entities.ExportQuiz, error) {
	return append([]entities.ExportQuiz(nil), r.quizzes...), nil
}

func loadDataset(path string) ([]entities.ExportQuiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var quizzes []entities.ExportQuiz
	if err = json.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset JSON: %w", err)
	}

	valid := quizzes[:0]
	for _, q := range quizzes {
		if q.ID == "" || len(q.Options) != entities.OptionCount ||
			q.CorrectAnswer < 0 || q.CorrectAnswer >= entities.OptionCount {
			continue
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("dataset %s contains no usable quizzes", path)
	}

	return valid, nil
}
