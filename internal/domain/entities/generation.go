package entities

// MaxGenerationCount is the largest batch the AI generator is asked for.
const MaxGenerationCount = 20

// GenerationRequest asks the AI generator for a batch of quizzes.
type GenerationRequest struct {
	Category   Category   `json:"category" validate:"required"`
	Difficulty Difficulty `json:"difficulty" validate:"required"`
	Count      int        `json:"count" validate:"min=1,max=20"`
}
