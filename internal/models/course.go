package models

import "time"

type SourcingMode string

const (
	SourcingBank       SourcingMode = "bank"
	SourcingGenerative SourcingMode = "generative"
)

var ValidSourcingModes = map[SourcingMode]bool{
	SourcingBank:       true,
	SourcingGenerative: true,
}

type Course struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectPlan is one sourcing task for exam generation: how many questions a
// course draws from one subject, and the scoring rules they carry.
type SubjectPlan struct {
	ID               int64              `json:"id"`
	CourseID         int64              `json:"course_id"`
	SubjectID        int64              `json:"subject_id"`
	SubjectName      string             `json:"subject_name"`
	QuestionCount    int                `json:"question_count"`
	MarksPerQuestion float64            `json:"marks_per_question"`
	NegativeMarks    float64            `json:"negative_marks"`
	OrderIndex       int                `json:"order_index"`
	SourcingMode     SourcingMode       `json:"sourcing_mode"`
	DifficultyConfig map[string]float64 `json:"difficulty_config,omitempty"`
}

type CreateCourseRequest struct {
	Name string `json:"name"`
}

type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// UpsertPlanRequest links a subject to a course (at most one plan per pair).
type UpsertPlanRequest struct {
	QuestionCount    int                `json:"question_count"`
	MarksPerQuestion float64            `json:"marks_per_question"`
	NegativeMarks    float64            `json:"negative_marks"`
	OrderIndex       int                `json:"order_index"`
	SourcingMode     SourcingMode       `json:"sourcing_mode,omitempty"`
	DifficultyConfig map[string]float64 `json:"difficulty_config,omitempty"`
}
