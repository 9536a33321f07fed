package mocktest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/models"
)

type fakeBank struct {
	questions []models.Question
	err       error
}

func (f *fakeBank) SampleQuestions(ctx context.Context, subjectID int64, limit int) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.questions) {
		limit = len(f.questions)
	}
	return f.questions[:limit], nil
}

type fakeWriter struct {
	mu     sync.Mutex
	nextID int64
	saved  []generator.GeneratedQuestion
	err    error
}

func (f *fakeWriter) InsertGeneratedQuestion(ctx context.Context, subjectID int64, q generator.GeneratedQuestion) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.saved = append(f.saved, q)
	return f.nextID, nil
}

type fakeGen struct {
	questions []generator.GeneratedQuestion
	err       error
}

func (f *fakeGen) GenerateQuestions(ctx context.Context, subject, sourceMaterial string, count int) ([]generator.GeneratedQuestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

type fakeMaterials struct {
	material string
	err      error
}

func (f *fakeMaterials) MaterialFor(ctx context.Context, category string) (string, error) {
	return f.material, f.err
}

func generated(n int) []generator.GeneratedQuestion {
	qs := make([]generator.GeneratedQuestion, n)
	for i := range qs {
		qs[i] = generator.GeneratedQuestion{
			QuestionText: "What happened this week?",
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: 0,
			Explanation:  "Because A.",
		}
	}
	return qs
}

func TestBankSource_AppliesPlanScoring(t *testing.T) {
	bank := &fakeBank{questions: []models.Question{{ID: 11}, {ID: 12}, {ID: 13}}}
	src := &bankSource{bank: bank}

	links, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 1, SubjectName: "Polity", QuestionCount: 2,
		MarksPerQuestion: 2, NegativeMarks: 0.66,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	for _, l := range links {
		if l.Marks != 2 || l.NegativeMarks != 0.66 {
			t.Errorf("link %d: expected plan scoring 2/-0.66, got %v/%v", l.QuestionID, l.Marks, l.NegativeMarks)
		}
	}
}

func TestBankSource_ShortBankReturnsFewerWithoutError(t *testing.T) {
	bank := &fakeBank{questions: []models.Question{{ID: 11}}}
	src := &bankSource{bank: bank}

	links, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 1, SubjectName: "Polity", QuestionCount: 10, MarksPerQuestion: 1,
	})
	if err != nil {
		t.Fatalf("expected no error on short bank, got: %v", err)
	}
	if len(links) != 1 {
		t.Errorf("expected 1 link, got %d", len(links))
	}
}

func TestGenerativeSource_PersistsAllGeneratedQuestions(t *testing.T) {
	writer := &fakeWriter{}
	src := &generativeSource{
		bank:      writer,
		gen:       &fakeGen{questions: generated(3)},
		materials: &fakeMaterials{material: "weekly digest"},
	}

	links, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 3,
		MarksPerQuestion: 2, NegativeMarks: 0.5,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if len(writer.saved) != 3 {
		t.Errorf("expected 3 persisted questions, got %d", len(writer.saved))
	}
	// Each link must reference a persisted row, not a placeholder.
	seen := make(map[int64]bool)
	for _, l := range links {
		if l.QuestionID <= 0 {
			t.Errorf("link has unpersisted question id %d", l.QuestionID)
		}
		if seen[l.QuestionID] {
			t.Errorf("duplicate question id %d across links", l.QuestionID)
		}
		seen[l.QuestionID] = true
	}
}

func TestGenerativeSource_ShortfallAccepted(t *testing.T) {
	writer := &fakeWriter{}
	src := &generativeSource{
		bank:      writer,
		gen:       &fakeGen{questions: generated(2)},
		materials: &fakeMaterials{},
	}

	links, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 5, MarksPerQuestion: 2,
	})
	if err != nil {
		t.Fatalf("expected no error on shortfall, got: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}
}

func TestGenerativeSource_GenerationFailureIsFatal(t *testing.T) {
	src := &generativeSource{
		bank:      &fakeWriter{},
		gen:       &fakeGen{err: errors.New("rate limited")},
		materials: &fakeMaterials{},
	}

	_, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 3,
	})
	if err == nil {
		t.Fatal("expected generation failure to propagate")
	}
}

func TestGenerativeSource_MaterialFailureIsFatal(t *testing.T) {
	src := &generativeSource{
		bank:      &fakeWriter{},
		gen:       &fakeGen{questions: generated(3)},
		materials: &fakeMaterials{err: errors.New("db down")},
	}

	_, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 3,
	})
	if err == nil {
		t.Fatal("expected material failure to propagate")
	}
}

func TestGenerativeSource_PersistFailureAbortsSubject(t *testing.T) {
	src := &generativeSource{
		bank:      &fakeWriter{err: errors.New("insert failed")},
		gen:       &fakeGen{questions: generated(3)},
		materials: &fakeMaterials{},
	}

	_, err := src.source(context.Background(), models.SubjectPlan{
		SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 3,
	})
	if err == nil {
		t.Fatal("expected persistence failure to propagate")
	}
}
