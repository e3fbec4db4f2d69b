// Package entities contains domain entities used across the application.
package entities

// Category is one of the fixed trivia topics a quiz belongs to.
type Category string

const (
	CategoryCulture    Category = "culture"
	CategoryFood       Category = "food"
	CategoryHistory    Category = "history"
	CategoryGeography  Category = "geography"
	CategoryLanguage   Category = "language"
	CategoryTradition  Category = "tradition"
	CategoryPopCulture Category = "pop-culture"
	CategoryEtiquette  Category = "etiquette"
)

// CategoryRandom marks sessions drawn from every category. Quizzes never carry it.
const CategoryRandom Category = "random"

// CategoryInfo holds presentation data associated with a category.
type CategoryInfo struct {
	Emoji       string
	Label       string
	Description string
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryCulture,
		CategoryFood,
		CategoryHistory,
		CategoryGeography,
		CategoryLanguage,
		CategoryTradition,
		CategoryPopCulture,
		CategoryEtiquette,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := c.info()
	return ok
}

// Info returns the emoji, label and description for the category.
// Unknown categories get the raw value as label.
func (c Category) Info() CategoryInfo {
	if info, ok := c.info(); ok {
		return info
	}
	if c == CategoryRandom {
		return CategoryInfo{Emoji: "🎲", Label: "Random", Description: "Questions from every category"}
	}
	return CategoryInfo{Emoji: "❓", Label: string(c)}
}

func (c Category) info() (CategoryInfo, bool) {
	switch c {
	case CategoryCulture:
		return CategoryInfo{Emoji: "🎎", Label: "Culture", Description: "Arts, customs and everyday life"}, true
	case CategoryFood:
		return CategoryInfo{Emoji: "🍣", Label: "Food", Description: "Dishes, ingredients and dining"}, true
	case CategoryHistory:
		return CategoryInfo{Emoji: "🏯", Label: "History", Description: "Eras, castles and famous figures"}, true
	case CategoryGeography:
		return CategoryInfo{Emoji: "🗾", Label: "Geography", Description: "Regions, cities and nature"}, true
	case CategoryLanguage:
		return CategoryInfo{Emoji: "🈴", Label: "Language", Description: "Words, phrases and writing"}, true
	case CategoryTradition:
		return CategoryInfo{Emoji: "⛩️", Label: "Tradition", Description: "Festivals, shrines and rituals"}, true
	case CategoryPopCulture:
		return CategoryInfo{Emoji: "🎌", Label: "Pop Culture", Description: "Anime, games and music"}, true
	case CategoryEtiquette:
		return CategoryInfo{Emoji: "🙏", Label: "Etiquette", Description: "Manners and social rules"}, true
	}
	return CategoryInfo{}, false
}

// Difficulty is the difficulty level of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
