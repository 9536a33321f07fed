package mocktest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/models"
)

var ErrMockTestNotFound = errors.New("mock test not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Question Bank ───────────────────────────────────────

// SampleQuestions returns up to limit bank questions for a subject. Fewer
// rows than requested is not an error; the shortfall is accepted upstream.
func (s *Store) SampleQuestions(ctx context.Context, subjectID int64, limit int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_id, question_text, correct_index, difficulty, COALESCE(explanation, ''), source, created_at
		 FROM questions
		 WHERE subject_id = $1
		 ORDER BY id
		 LIMIT $2`,
		subjectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.QuestionText, &q.CorrectIndex,
			&q.Difficulty, &q.Explanation, &q.Source, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// InsertGeneratedQuestion persists one collaborator-produced question and its
// options as a single transaction, returning the new bank id.
func (s *Store) InsertGeneratedQuestion(ctx context.Context, subjectID int64, gq generator.GeneratedQuestion) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var questionID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (subject_id, question_text, correct_index, difficulty, explanation, source)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		subjectID, gq.QuestionText, gq.CorrectIndex, models.DifficultyMedium,
		gq.Explanation, models.QuestionFromGenerator,
	).Scan(&questionID)
	if err != nil {
		return 0, fmt.Errorf("insert generated question: %w", err)
	}

	for i, opt := range gq.Options {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO question_options (question_id, option_index, option_text)
			 VALUES ($1, $2, $3)`,
			questionID, i, opt,
		); err != nil {
			return 0, fmt.Errorf("insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit generated question: %w", err)
	}
	return questionID, nil
}

// CreateQuestion inserts an admin-supplied bank entry with its options.
func (s *Store) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (*models.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := models.Question{
		SubjectID:    req.SubjectID,
		QuestionText: req.QuestionText,
		CorrectIndex: req.CorrectIndex,
		Difficulty:   req.Difficulty,
		Explanation:  req.Explanation,
		Source:       models.QuestionFromBank,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (subject_id, question_text, correct_index, difficulty, explanation, source)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		req.SubjectID, req.QuestionText, req.CorrectIndex, req.Difficulty,
		req.Explanation, models.QuestionFromBank,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}

	for i, opt := range req.Options {
		var option models.QuestionOption
		err := tx.QueryRowContext(ctx,
			`INSERT INTO question_options (question_id, option_index, option_text)
			 VALUES ($1, $2, $3)
			 RETURNING id, question_id, option_index, option_text`,
			q.ID, i, opt,
		).Scan(&option.ID, &option.QuestionID, &option.OptionIndex, &option.OptionText)
		if err != nil {
			return nil, fmt.Errorf("insert option: %w", err)
		}
		q.Options = append(q.Options, option)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit question: %w", err)
	}
	return &q, nil
}

// ── Mock Test Lifecycle ─────────────────────────────────

// CreateLiveTest runs the whole draft→live lifecycle in one transaction:
// insert the draft row, bulk-insert all question links, then set total marks
// and flip is_live. A failure at any step rolls the whole test back, so a
// half-built test is never visible and no orphan draft survives an error.
func (s *Store) CreateLiveTest(ctx context.Context, courseID int64, title string, durationMinutes int, links []models.QuestionLink, totalMarks float64) (*models.MockTest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var test models.MockTest
	err = tx.QueryRowContext(ctx,
		`INSERT INTO mock_tests (course_id, title, duration_minutes, total_marks, is_live)
		 VALUES ($1, $2, $3, 0, FALSE)
		 RETURNING id, course_id, title, duration_minutes, created_at`,
		courseID, title, durationMinutes,
	).Scan(&test.ID, &test.CourseID, &test.Title, &test.DurationMinutes, &test.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert draft test: %w", err)
	}

	if len(links) > 0 {
		// One bulk insert regardless of question count.
		valueStrings := make([]string, 0, len(links))
		valueArgs := make([]interface{}, 0, len(links)*5)
		for i, link := range links {
			valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
				i*5+1, i*5+2, i*5+3, i*5+4, i*5+5))
			valueArgs = append(valueArgs, test.ID, link.QuestionID, link.Marks, link.NegativeMarks, i)
		}
		query := fmt.Sprintf(
			`INSERT INTO mock_test_questions (mock_test_id, question_id, marks, negative_marks, position) VALUES %s`,
			strings.Join(valueStrings, ", "),
		)
		if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
			return nil, fmt.Errorf("bulk insert question links: %w", err)
		}
	}

	// Publish instant: the one-way draft→live transition.
	if _, err := tx.ExecContext(ctx,
		`UPDATE mock_tests SET total_marks = $1, is_live = TRUE WHERE id = $2`,
		totalMarks, test.ID,
	); err != nil {
		return nil, fmt.Errorf("publish test: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit test: %w", err)
	}

	test.TotalMarks = totalMarks
	test.IsLive = true
	test.QuestionCount = len(links)
	return &test, nil
}

func (s *Store) GetTest(ctx context.Context, testID int64) (*models.MockTest, error) {
	var test models.MockTest
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_id, title, duration_minutes, total_marks, is_live, created_at
		 FROM mock_tests WHERE id = $1`,
		testID,
	).Scan(&test.ID, &test.CourseID, &test.Title, &test.DurationMinutes,
		&test.TotalMarks, &test.IsLive, &test.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrMockTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	return &test, nil
}

// ListLiveTests returns the live tests for a course as a lightweight
// projection carrying a question count instead of the links themselves.
func (s *Store) ListLiveTests(ctx context.Context, courseID int64) ([]models.MockTest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mt.id, mt.course_id, mt.title, mt.duration_minutes, mt.total_marks, mt.is_live,
		        mt.created_at, COUNT(mtq.id)
		 FROM mock_tests mt
		 LEFT JOIN mock_test_questions mtq ON mtq.mock_test_id = mt.id
		 WHERE mt.course_id = $1 AND mt.is_live = TRUE
		 GROUP BY mt.id
		 ORDER BY mt.created_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list live tests: %w", err)
	}
	defer rows.Close()

	var tests []models.MockTest
	for rows.Next() {
		var t models.MockTest
		if err := rows.Scan(&t.ID, &t.CourseID, &t.Title, &t.DurationMinutes,
			&t.TotalMarks, &t.IsLive, &t.CreatedAt, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// GetScoringLinks loads a test's question links joined with the correct
// index and subject name grading needs. Link order follows test position.
func (s *Store) GetScoringLinks(ctx context.Context, testID int64) ([]models.ScoringLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mtq.question_id, mtq.marks, mtq.negative_marks, q.correct_index, sub.name
		 FROM mock_test_questions mtq
		 JOIN questions q ON q.id = mtq.question_id
		 JOIN subjects sub ON sub.id = q.subject_id
		 WHERE mtq.mock_test_id = $1
		 ORDER BY mtq.position ASC`,
		testID,
	)
	if err != nil {
		return nil, fmt.Errorf("get scoring links: %w", err)
	}
	defer rows.Close()

	var links []models.ScoringLink
	for rows.Next() {
		var l models.ScoringLink
		if err := rows.Scan(&l.QuestionID, &l.Marks, &l.NegativeMarks,
			&l.CorrectIndex, &l.SubjectName); err != nil {
			return nil, fmt.Errorf("scan scoring link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// ── Attempt Recorder ────────────────────────────────────

// SaveAttempt persists the attempt and all its answer rows in one
// transaction. Attempts are append-only: every submission creates a new row.
func (s *Store) SaveAttempt(ctx context.Context, attempt *models.MockTestAttempt) (*models.MockTestAttempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	weakTopics, err := json.Marshal(attempt.WeakTopics)
	if err != nil {
		return nil, fmt.Errorf("marshal weak topics: %w", err)
	}

	var summary *string
	var strengths, weaknesses, actionPlan []byte
	if attempt.Analysis != nil {
		summary = &attempt.Analysis.Summary
		if strengths, err = json.Marshal(attempt.Analysis.Strengths); err != nil {
			return nil, fmt.Errorf("marshal strengths: %w", err)
		}
		if weaknesses, err = json.Marshal(attempt.Analysis.Weaknesses); err != nil {
			return nil, fmt.Errorf("marshal weaknesses: %w", err)
		}
		if actionPlan, err = json.Marshal(attempt.Analysis.ActionPlan); err != nil {
			return nil, fmt.Errorf("marshal action plan: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO mock_test_attempts
		 (user_id, mock_test_id, score, total_marks, correct_count, wrong_count, skipped_count,
		  time_taken_seconds, weak_topics, ai_summary, ai_strengths, ai_weaknesses, ai_action_plan, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at`,
		attempt.UserID, attempt.MockTestID, attempt.Score, attempt.TotalMarks,
		attempt.CorrectCount, attempt.WrongCount, attempt.SkippedCount,
		attempt.TimeTakenSeconds, weakTopics, summary, strengths, weaknesses,
		actionPlan, attempt.Feedback,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	for i := range attempt.Answers {
		ans := &attempt.Answers[i]
		ans.AttemptID = attempt.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, selected_index, is_correct, time_taken_seconds)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			ans.AttemptID, ans.QuestionID, ans.SelectedIndex, ans.IsCorrect, ans.TimeTakenSeconds,
		).Scan(&ans.ID)
		if err != nil {
			return nil, fmt.Errorf("insert answer record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attempt: %w", err)
	}
	return attempt, nil
}

func (s *Store) GetAttempt(ctx context.Context, attemptID int64) (*models.MockTestAttempt, error) {
	var a models.MockTestAttempt
	var weakTopics []byte
	var summary sql.NullString
	var strengths, weaknesses, actionPlan []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, mock_test_id, score, total_marks, correct_count, wrong_count,
		        skipped_count, time_taken_seconds, weak_topics, ai_summary, ai_strengths,
		        ai_weaknesses, ai_action_plan, feedback, created_at
		 FROM mock_test_attempts WHERE id = $1`,
		attemptID,
	).Scan(&a.ID, &a.UserID, &a.MockTestID, &a.Score, &a.TotalMarks,
		&a.CorrectCount, &a.WrongCount, &a.SkippedCount, &a.TimeTakenSeconds,
		&weakTopics, &summary, &strengths, &weaknesses, &actionPlan,
		&a.Feedback, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrMockTestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	if len(weakTopics) > 0 {
		if err := json.Unmarshal(weakTopics, &a.WeakTopics); err != nil {
			return nil, fmt.Errorf("unmarshal weak topics: %w", err)
		}
	}
	if summary.Valid {
		analysis := models.PerformanceAnalysis{Summary: summary.String}
		if len(strengths) > 0 {
			json.Unmarshal(strengths, &analysis.Strengths)
		}
		if len(weaknesses) > 0 {
			json.Unmarshal(weaknesses, &analysis.Weaknesses)
		}
		if len(actionPlan) > 0 {
			json.Unmarshal(actionPlan, &analysis.ActionPlan)
		}
		a.Analysis = &analysis
	}

	answers, err := s.getAnswerRecords(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	a.Answers = answers

	return &a, nil
}

func (s *Store) getAnswerRecords(ctx context.Context, attemptID int64) ([]models.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attempt_id, question_id, selected_index, is_correct, time_taken_seconds
		 FROM attempt_answers WHERE attempt_id = $1 ORDER BY id`,
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("get answer records: %w", err)
	}
	defer rows.Close()

	var answers []models.AnswerRecord
	for rows.Next() {
		var ans models.AnswerRecord
		if err := rows.Scan(&ans.ID, &ans.AttemptID, &ans.QuestionID,
			&ans.SelectedIndex, &ans.IsCorrect, &ans.TimeTakenSeconds); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}

// ListUserAttempts returns a user's attempts, newest first, without the
// per-question answer rows.
func (s *Store) ListUserAttempts(ctx context.Context, userID int64, limit, offset int) ([]models.MockTestAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, mock_test_id, score, total_marks, correct_count, wrong_count,
		        skipped_count, time_taken_seconds, feedback, created_at
		 FROM mock_test_attempts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.MockTestAttempt
	for rows.Next() {
		var a models.MockTestAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.MockTestID, &a.Score, &a.TotalMarks,
			&a.CorrectCount, &a.WrongCount, &a.SkippedCount, &a.TimeTakenSeconds,
			&a.Feedback, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
