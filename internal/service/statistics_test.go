package service

import (
	"encoding/json"
	"testing"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)
	if stats.TotalQuizzes != 0 || stats.AveragePercentage != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ByCategory == nil || len(stats.ByCategory) != 0 {
		t.Fatal("ByCategory must be an empty map")
	}
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics([]entities.HistoryEntry{
		{Category: entities.CategoryFood, Score: 2, Total: 3},
		{Category: entities.CategoryFood, Score: 0, Total: 0},
		{Category: entities.CategoryGeography, Score: 1, Total: 6},
	})

	if stats.TotalQuizzes != 3 || stats.TotalCorrect != 3 || stats.TotalQuestions != 9 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AveragePercentage != 33 {
		t.Fatalf("AveragePercentage = %d, want 33", stats.AveragePercentage)
	}

	food := stats.ByCategory[entities.CategoryFood]
	if food.Quizzes != 2 || food.Percentage != 67 {
		t.Fatalf("food = %+v", food)
	}
	geo := stats.ByCategory[entities.CategoryGeography]
	if geo.Percentage != 17 {
		t.Fatalf("geography = %+v", geo)
	}
	if _, ok := stats.ByCategory[entities.CategoryHistory]; ok {
		t.Fatal("categories without sessions must be absent")
	}
}

func TestIncorrectCount(t *testing.T) {
	tests := []struct {
		score, total, skipped, want int
	}{
		{7, 10, 1, 2},
		{10, 10, 0, 0},
		{0, 5, 5, 0},
		{4, 3, 0, 0},
	}
	for _, tt := range tests {
		if got := entities.IncorrectCount(tt.score, tt.total, tt.skipped); got != tt.want {
			t.Errorf("IncorrectCount(%d, %d, %d) = %d, want %d", tt.score, tt.total, tt.skipped, got, tt.want)
		}
	}
}
