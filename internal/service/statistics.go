package service

import "github.com/aliskhannn/japan-trivia/internal/domain/entities"

// ComputeStatistics folds history entries into overall and per-category totals.
func ComputeStatistics(history []entities.HistoryEntry) entities.Statistics {
	stats := entities.Statistics{
		ByCategory: make(map[entities.Category]*entities.CategoryStats),
	}

	for _, h := range history {
		stats.TotalQuizzes++
		stats.TotalCorrect += h.Score
		stats.TotalQuestions += h.Total

		cs, ok := stats.ByCategory[h.Category]
		if !ok {
			cs = &entities.CategoryStats{}
			stats.ByCategory[h.Category] = cs
		}
		cs.Quizzes++
		cs.Correct += h.Score
		cs.Total += h.Total
	}

	for _, cs := range stats.ByCategory {
		cs.Percentage = entities.Percent(cs.Correct, cs.Total)
	}
	stats.AveragePercentage = entities.Percent(stats.TotalCorrect, stats.TotalQuestions)

	return stats
}
