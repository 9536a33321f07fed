package models

import "time"

// MockTest state machine: absent → draft (is_live=false) → live. One-way,
// one-time; nothing ever resets is_live.
type MockTest struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"course_id"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalMarks      float64   `json:"total_marks"`
	IsLive          bool      `json:"is_live"`
	QuestionCount   int       `json:"question_count,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionLink binds one question to one test with a frozen scoring snapshot.
// Later edits to the bank entry never change already-linked tests.
type QuestionLink struct {
	ID            int64   `json:"id"`
	MockTestID    int64   `json:"mock_test_id"`
	QuestionID    int64   `json:"question_id"`
	Marks         float64 `json:"marks"`
	NegativeMarks float64 `json:"negative_marks"`
	Position      int     `json:"position"`
}

// ScoringLink is a question link joined with the fields grading needs.
type ScoringLink struct {
	QuestionID    int64   `json:"question_id"`
	Marks         float64 `json:"marks"`
	NegativeMarks float64 `json:"negative_marks"`
	CorrectIndex  int     `json:"correct_index"`
	SubjectName   string  `json:"subject_name"`
}

type GenerateMockTestRequest struct {
	CourseID        int64  `json:"course_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

type MockTestListResponse struct {
	MockTests []MockTest `json:"mock_tests"`
	Total     int        `json:"total"`
}
