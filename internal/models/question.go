package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

type QuestionSourceKind string

const (
	QuestionFromBank      QuestionSourceKind = "bank"
	QuestionFromGenerator QuestionSourceKind = "generated"
)

// Question is a bank entry. Tests never read scoring rules from here:
// each test link carries its own frozen marks/negative snapshot.
type Question struct {
	ID           int64              `json:"id"`
	SubjectID    int64              `json:"subject_id"`
	SubjectName  string             `json:"subject_name,omitempty"`
	QuestionText string             `json:"question_text"`
	Options      []QuestionOption   `json:"options"`
	CorrectIndex int                `json:"correct_index"`
	Difficulty   Difficulty         `json:"difficulty"`
	Explanation  string             `json:"explanation,omitempty"`
	Source       QuestionSourceKind `json:"source"`
	CreatedAt    time.Time          `json:"created_at"`
}

type QuestionOption struct {
	ID          int64  `json:"id"`
	QuestionID  int64  `json:"question_id"`
	OptionIndex int    `json:"option_index"`
	OptionText  string `json:"option_text"`
}

type CreateQuestionRequest struct {
	SubjectID    int64      `json:"subject_id"`
	QuestionText string     `json:"question_text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_index"`
	Difficulty   Difficulty `json:"difficulty"`
	Explanation  string     `json:"explanation,omitempty"`
}
