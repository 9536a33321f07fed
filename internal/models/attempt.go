package models

import "time"

// SubmittedAnswer is one answer in a grading request. SelectedIndex nil means
// the student saw the question and skipped it; answers may also be missing
// from the submission entirely.
type SubmittedAnswer struct {
	QuestionID       int64 `json:"question_id"`
	SelectedIndex    *int  `json:"selected_index"`
	TimeTakenSeconds int   `json:"time_taken_seconds"`
}

type SubmitAttemptRequest struct {
	Answers []SubmittedAnswer `json:"answers"`
}

// PerformanceAnalysis is the structured diagnosis produced by the generative
// collaborator after grading.
type PerformanceAnalysis struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	ActionPlan []string `json:"action_plan"`
}

// MockTestAttempt is an append-only audit record: created exactly once per
// submission, never mutated.
type MockTestAttempt struct {
	ID               int64                `json:"id"`
	UserID           int64                `json:"user_id"`
	MockTestID       int64                `json:"mock_test_id"`
	Score            float64              `json:"score"`
	TotalMarks       float64              `json:"total_marks"`
	CorrectCount     int                  `json:"correct_count"`
	WrongCount       int                  `json:"wrong_count"`
	SkippedCount     int                  `json:"skipped_count"`
	TimeTakenSeconds int                  `json:"time_taken_seconds"`
	WeakTopics       []string             `json:"weak_topics,omitempty"`
	Analysis         *PerformanceAnalysis `json:"analysis,omitempty"`
	Feedback         string               `json:"feedback"`
	Answers          []AnswerRecord       `json:"answers,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

type AnswerRecord struct {
	ID               int64 `json:"id"`
	AttemptID        int64 `json:"attempt_id"`
	QuestionID       int64 `json:"question_id"`
	SelectedIndex    *int  `json:"selected_index"`
	IsCorrect        bool  `json:"is_correct"`
	TimeTakenSeconds int   `json:"time_taken_seconds"`
}

type AttemptListResponse struct {
	Attempts []MockTestAttempt `json:"attempts"`
	Total    int               `json:"total"`
}
