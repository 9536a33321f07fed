package mocktest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prepmock/backend/internal/models"
)

// fakeSource returns one link per requested question, with question IDs
// derived from the subject ID so the flattened order is checkable. An
// optional delay simulates a slow collaborator.
type fakeSource struct {
	delay time.Duration
	err   error
	short int // if > 0, return this many links instead of the requested count
}

func (f *fakeSource) source(ctx context.Context, plan models.SubjectPlan) ([]models.QuestionLink, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}

	count := plan.QuestionCount
	if f.short > 0 {
		count = f.short
	}
	links := make([]models.QuestionLink, 0, count)
	for i := 0; i < count; i++ {
		links = append(links, models.QuestionLink{
			QuestionID:    plan.SubjectID*100 + int64(i),
			Marks:         plan.MarksPerQuestion,
			NegativeMarks: plan.NegativeMarks,
		})
	}
	return links, nil
}

func testPlans() []models.SubjectPlan {
	return []models.SubjectPlan{
		{SubjectID: 1, SubjectName: "Polity", QuestionCount: 3, MarksPerQuestion: 2, NegativeMarks: 0.5, OrderIndex: 0, SourcingMode: models.SourcingBank},
		{SubjectID: 2, SubjectName: "Current Affairs", QuestionCount: 2, MarksPerQuestion: 2, NegativeMarks: 0.5, OrderIndex: 1, SourcingMode: models.SourcingGenerative},
		{SubjectID: 3, SubjectName: "Economy", QuestionCount: 2, MarksPerQuestion: 1, NegativeMarks: 0.25, OrderIndex: 2, SourcingMode: models.SourcingBank},
	}
}

func TestAssemble_PreservesPlanOrderDespiteCompletionOrder(t *testing.T) {
	// The first subject is the slowest, so it finishes last; its links must
	// still come first in the flattened output.
	a := &Assembler{
		bank:       &fakeSource{delay: 30 * time.Millisecond},
		generative: &fakeSource{},
	}

	links, totalMarks, err := a.Assemble(context.Background(), testPlans())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(links) != 7 {
		t.Fatalf("expected 7 links, got %d", len(links))
	}

	wantIDs := []int64{100, 101, 102, 200, 201, 300, 301}
	for i, want := range wantIDs {
		if links[i].QuestionID != want {
			t.Errorf("link %d: expected question %d, got %d", i, want, links[i].QuestionID)
		}
	}

	// 3*2 + 2*2 + 2*1
	if totalMarks != 12 {
		t.Errorf("expected 12 total marks, got %v", totalMarks)
	}
}

func TestAssemble_AnyFailureAbortsEverything(t *testing.T) {
	a := &Assembler{
		bank:       &fakeSource{},
		generative: &fakeSource{err: errors.New("model overloaded")},
	}

	links, _, err := a.Assemble(context.Background(), testPlans())
	if err == nil {
		t.Fatal("expected assembly to fail when one subject fails")
	}
	if links != nil {
		t.Errorf("expected no links on failure, got %d", len(links))
	}
	if !strings.Contains(err.Error(), "Current Affairs") {
		t.Errorf("expected error to name the failing subject, got: %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected error to wrap the cause, got: %v", err)
	}
}

func TestAssemble_ShortfallAcceptedWithoutError(t *testing.T) {
	a := &Assembler{
		bank:       &fakeSource{short: 1},
		generative: &fakeSource{},
	}

	links, totalMarks, err := a.Assemble(context.Background(), testPlans())
	if err != nil {
		t.Fatalf("expected no error on shortfall, got: %v", err)
	}

	// Bank subjects (Polity, Economy) return 1 each; generative returns 2.
	if len(links) != 4 {
		t.Errorf("expected 4 links, got %d", len(links))
	}
	// Total marks reflect the questions actually linked, not the plan.
	if totalMarks != 7 {
		t.Errorf("expected 7 total marks, got %v", totalMarks)
	}
}

func TestAssemble_CancelledContextStopsPendingWork(t *testing.T) {
	a := &Assembler{
		bank:       &fakeSource{delay: time.Second},
		generative: &fakeSource{delay: time.Second},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, _, err := a.Assemble(ctx, testPlans())
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancelled assembly took %v, expected prompt return", elapsed)
	}
}

func TestAssemble_NoPlansYieldsEmptyTest(t *testing.T) {
	a := &Assembler{bank: &fakeSource{}, generative: &fakeSource{}}

	links, totalMarks, err := a.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(links) != 0 || totalMarks != 0 {
		t.Errorf("expected empty result, got %d links / %v marks", len(links), totalMarks)
	}
}

func TestSourceFor_DispatchesOnSourcingMode(t *testing.T) {
	bank := &fakeSource{}
	generative := &fakeSource{}
	a := &Assembler{bank: bank, generative: generative}

	if got := a.sourceFor(models.SubjectPlan{SourcingMode: models.SourcingBank}); got != questionSource(bank) {
		t.Error("bank mode must route to the bank source")
	}
	if got := a.sourceFor(models.SubjectPlan{SourcingMode: models.SourcingGenerative}); got != questionSource(generative) {
		t.Error("generative mode must route to the generative source")
	}
	// Unset mode falls back to the bank.
	if got := a.sourceFor(models.SubjectPlan{}); got != questionSource(bank) {
		t.Error("unset mode must route to the bank source")
	}
}
