package mocktest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prepmock/backend/internal/courses"
	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/models"
)

var ErrNoSubjectsConfigured = errors.New("course has no subjects configured")

// FallbackFeedback is used when the analysis collaborator fails; grading
// never fails solely because analysis generation failed.
const FallbackFeedback = "Keep practicing!"

type performanceAnalyzer interface {
	AnalyzePerformance(ctx context.Context, in generator.AnalysisInput) (*generator.PerformanceReport, error)
}

// Service orchestrates mock test generation and attempt grading.
type Service struct {
	courses   *courses.Store
	store     *Store
	assembler *Assembler
	analyzer  performanceAnalyzer
}

func NewService(courseStore *courses.Store, store *Store, assembler *Assembler, gen *generator.Generator) *Service {
	return &Service{
		courses:   courseStore,
		store:     store,
		assembler: assembler,
		analyzer:  gen,
	}
}

// GenerateMockExam sources questions for every subject in the course's plan
// concurrently, then creates and publishes the test atomically. Any sourcing
// failure aborts the whole generation; no test row is left behind.
func (s *Service) GenerateMockExam(ctx context.Context, req models.GenerateMockTestRequest) (*models.MockTest, error) {
	plans, err := s.courses.ResolvePlan(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("course %d: %w", req.CourseID, ErrNoSubjectsConfigured)
	}

	links, totalMarks, err := s.assembler.Assemble(ctx, plans)
	if err != nil {
		return nil, fmt.Errorf("assemble exam: %w", err)
	}

	test, err := s.store.CreateLiveTest(ctx, req.CourseID, req.Title, req.DurationMinutes, links, totalMarks)
	if err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	log.Printf("[mocktest] published test %d for course %d: %d questions, %.2f marks",
		test.ID, test.CourseID, len(links), totalMarks)
	return test, nil
}

func (s *Service) ListLiveTests(ctx context.Context, courseID int64) ([]models.MockTest, error) {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.store.ListLiveTests(ctx, courseID)
}

// SubmitAttempt grades a submission against a live test, requests a
// performance analysis, and records the attempt with its answer rows as one
// unit. Every submission produces a new attempt; nothing is ever merged.
func (s *Service) SubmitAttempt(ctx context.Context, userID, testID int64, answers []models.SubmittedAnswer) (*models.MockTestAttempt, error) {
	test, err := s.store.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !test.IsLive {
		return nil, ErrMockTestNotFound
	}

	links, err := s.store.GetScoringLinks(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("load scoring links: %w", err)
	}

	result := GradeAttempt(links, answers)

	analysis, feedback := s.analyze(ctx, result)

	attempt := &models.MockTestAttempt{
		UserID:           userID,
		MockTestID:       testID,
		Score:            result.Score,
		TotalMarks:       result.TotalMarks,
		CorrectCount:     result.CorrectCount,
		WrongCount:       result.WrongCount,
		SkippedCount:     result.SkippedCount,
		TimeTakenSeconds: result.TimeTakenSeconds,
		WeakTopics:       result.WeakTopics,
		Analysis:         analysis,
		Feedback:         feedback,
		Answers:          result.Answers,
	}

	saved, err := s.store.SaveAttempt(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	return saved, nil
}

// analyze asks the collaborator for a structured diagnosis. On any failure it
// degrades to the static fallback so the attempt is still recorded.
func (s *Service) analyze(ctx context.Context, result GradeResult) (*models.PerformanceAnalysis, string) {
	report, err := s.analyzer.AnalyzePerformance(ctx, generator.AnalysisInput{
		Score:            result.Score,
		TotalMarks:       result.TotalMarks,
		WeakTopics:       result.WeakTopics,
		TimeTakenSeconds: result.TimeTakenSeconds,
		CorrectCount:     result.CorrectCount,
		WrongCount:       result.WrongCount,
		SkippedCount:     result.SkippedCount,
	})
	if err != nil {
		log.Printf("WARN: performance analysis failed, using fallback feedback: %v", err)
		return nil, FallbackFeedback
	}

	return &models.PerformanceAnalysis{
		Summary:    report.Summary,
		Strengths:  report.Strengths,
		Weaknesses: report.Weaknesses,
		ActionPlan: report.ActionPlan,
	}, report.Summary
}

func (s *Service) GetAttempt(ctx context.Context, attemptID int64) (*models.MockTestAttempt, error) {
	return s.store.GetAttempt(ctx, attemptID)
}

func (s *Service) ListUserAttempts(ctx context.Context, userID int64, limit, offset int) ([]models.MockTestAttempt, error) {
	return s.store.ListUserAttempts(ctx, userID, limit, offset)
}

func (s *Service) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (*models.Question, error) {
	return s.store.CreateQuestion(ctx, req)
}
