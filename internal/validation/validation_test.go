package validation

import (
	"strings"
	"testing"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

func validInput() entities.QuizInput {
	return entities.QuizInput{
		Question:      "What is the name of the traditional Japanese paper folding art?",
		Options:       []string{"Origami", "Ikebana", "Shodo", "Bonsai"},
		CorrectAnswer: 0,
		Explanation:   "Origami comes from oru (to fold) and kami (paper).",
		Difficulty:    entities.DifficultyEasy,
		Category:      entities.CategoryCulture,
		Tags:          []string{"art"},
	}
}

func TestValidateQuizInput_Valid(t *testing.T) {
	res := ValidateQuizInput(validInput())
	if !res.IsValid {
		t.Fatalf("expected valid input, got errors %v", res.Errors)
	}
	if res.Errors == nil || len(res.Errors) != 0 {
		t.Fatalf("Errors = %#v, want empty non-nil slice", res.Errors)
	}
}

func TestValidateQuizInput_CollectsAllErrors(t *testing.T) {
	in := validInput()
	in.Question = "  "
	in.Options = []string{"Origami", "origami ", "", "Bonsai"}
	in.CorrectAnswer = 4
	in.Difficulty = "extreme"
	in.Category = "sports"
	in.Explanation = "Contains violence."

	res := ValidateQuizInput(in)
	if res.IsValid {
		t.Fatal("expected invalid input")
	}

	want := []string{
		"question is empty",
		"option 3 is empty",
		"options contain duplicates",
		"correct answer index must be between 0 and 3",
		`unknown difficulty "extreme"`,
		`unknown category "sports"`,
		"contains sensitive keyword: violence",
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(res.Errors), res.Errors, len(want))
	}
	for i := range want {
		if res.Errors[i] != want[i] {
			t.Errorf("error[%d] = %q, want %q", i, res.Errors[i], want[i])
		}
	}
}

func TestValidateQuestion_TooLong(t *testing.T) {
	res := ValidateQuestion(strings.Repeat("あ", maxQuestionLen))
	if !res.IsValid {
		t.Fatalf("question of exactly %d runes must be valid: %v", maxQuestionLen, res.Errors)
	}

	res = ValidateQuestion(strings.Repeat("a", maxQuestionLen+1))
	if res.IsValid {
		t.Fatal("expected too long question to fail")
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		errs    int
	}{
		{"valid", []string{"a", "b", "c", "d"}, 0},
		{"three options", []string{"a", "b", "c"}, 1},
		{"case-insensitive duplicate", []string{"Sushi", "SUSHI", "Ramen", "Udon"}, 1},
		{"whitespace duplicate", []string{" Tokyo", "Tokyo ", "Osaka", "Kyoto"}, 1},
		{"too long option", []string{strings.Repeat("x", maxOptionLen+1), "b", "c", "d"}, 1},
		{"two empty options", []string{"", " ", "c", "d"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateOptions(tt.options)
			if len(res.Errors) != tt.errs {
				t.Fatalf("got errors %v, want %d", res.Errors, tt.errs)
			}
			if res.IsValid != (tt.errs == 0) {
				t.Fatalf("IsValid = %v", res.IsValid)
			}
		})
	}
}

func TestCheckSensitiveContent(t *testing.T) {
	if res := CheckSensitiveContent("A peaceful tea ceremony"); !res.IsValid {
		t.Fatalf("unexpected errors %v", res.Errors)
	}

	res := CheckSensitiveContent("KILLING time and 暴力")
	if len(res.Errors) != 2 {
		t.Fatalf("got %v, want 2 errors", res.Errors)
	}
}

func TestIsExactDuplicate(t *testing.T) {
	existing := []string{"What is Mount Fuji?", "Where is Nara?"}

	if !IsExactDuplicate("  what is mount fuji?", existing) {
		t.Error("expected case and whitespace insensitive match")
	}
	if IsExactDuplicate("What is Mount Fuji made of?", existing) {
		t.Error("unexpected match")
	}
}
