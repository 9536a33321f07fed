package courses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prepmock/backend/internal/models"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSubjectNotFound = errors.New("subject not found")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCourse(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO courses (name) VALUES ($1) RETURNING id, name, created_at`,
		name,
	).Scan(&course.ID, &course.Name, &course.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

func (s *Store) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	var course models.Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM courses WHERE id = $1`,
		courseID,
	).Scan(&course.ID, &course.Name, &course.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM courses ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Store) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subjects (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		name,
	).Scan(&subject.ID, &subject.Name, &subject.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return &subject, nil
}

// UpsertPlan links a subject to a course. At most one plan exists per
// (course, subject) pair; re-linking overwrites the previous plan.
func (s *Store) UpsertPlan(ctx context.Context, courseID, subjectID int64, req models.UpsertPlanRequest) (*models.SubjectPlan, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	var subjectName string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM subjects WHERE id = $1`, subjectID,
	).Scan(&subjectName)
	if err == sql.ErrNoRows {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	mode := req.SourcingMode
	if mode == "" {
		mode = DefaultSourcingMode(subjectName)
	}

	var diffConfig []byte
	if req.DifficultyConfig != nil {
		diffConfig, err = json.Marshal(req.DifficultyConfig)
		if err != nil {
			return nil, fmt.Errorf("marshal difficulty config: %w", err)
		}
	}

	plan := models.SubjectPlan{
		CourseID:         courseID,
		SubjectID:        subjectID,
		SubjectName:      subjectName,
		DifficultyConfig: req.DifficultyConfig,
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO course_subjects
		 (course_id, subject_id, question_count, marks_per_question, negative_marks, order_index, sourcing_mode, difficulty_config)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (course_id, subject_id) DO UPDATE SET
		   question_count = EXCLUDED.question_count,
		   marks_per_question = EXCLUDED.marks_per_question,
		   negative_marks = EXCLUDED.negative_marks,
		   order_index = EXCLUDED.order_index,
		   sourcing_mode = EXCLUDED.sourcing_mode,
		   difficulty_config = EXCLUDED.difficulty_config
		 RETURNING id, question_count, marks_per_question, negative_marks, order_index, sourcing_mode`,
		courseID, subjectID, req.QuestionCount, req.MarksPerQuestion,
		req.NegativeMarks, req.OrderIndex, mode, diffConfig,
	).Scan(&plan.ID, &plan.QuestionCount, &plan.MarksPerQuestion,
		&plan.NegativeMarks, &plan.OrderIndex, &plan.SourcingMode)
	if err != nil {
		return nil, fmt.Errorf("upsert plan: %w", err)
	}
	return &plan, nil
}

// ResolvePlan returns the course's subject plans ordered by order_index
// ascending, each carrying the resolved subject name. No side effects.
func (s *Store) ResolvePlan(ctx context.Context, courseID int64) ([]models.SubjectPlan, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cs.id, cs.course_id, cs.subject_id, sub.name,
		        cs.question_count, cs.marks_per_question, cs.negative_marks,
		        cs.order_index, cs.sourcing_mode, cs.difficulty_config
		 FROM course_subjects cs
		 JOIN subjects sub ON sub.id = cs.subject_id
		 WHERE cs.course_id = $1
		 ORDER BY cs.order_index ASC, cs.id ASC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve plan: %w", err)
	}
	defer rows.Close()

	var plans []models.SubjectPlan
	for rows.Next() {
		var p models.SubjectPlan
		var diffConfig []byte
		if err := rows.Scan(&p.ID, &p.CourseID, &p.SubjectID, &p.SubjectName,
			&p.QuestionCount, &p.MarksPerQuestion, &p.NegativeMarks,
			&p.OrderIndex, &p.SourcingMode, &diffConfig); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if len(diffConfig) > 0 {
			if err := json.Unmarshal(diffConfig, &p.DifficultyConfig); err != nil {
				return nil, fmt.Errorf("unmarshal difficulty config: %w", err)
			}
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// DefaultSourcingMode infers a sourcing mode from a subject name for callers
// that don't set one explicitly. The stored mode, not the name, is what exam
// generation dispatches on.
func DefaultSourcingMode(subjectName string) models.SourcingMode {
	lower := strings.ToLower(subjectName)
	if strings.Contains(lower, "current affairs") || strings.Contains(lower, "news") {
		return models.SourcingGenerative
	}
	return models.SourcingBank
}
