package mocktest

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/prepmock/backend/internal/content"
	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/models"
)

// questionSource produces up to plan.QuestionCount scored question links for
// one subject. Both variants return fewer links than requested without error
// when the underlying supply runs short.
type questionSource interface {
	source(ctx context.Context, plan models.SubjectPlan) ([]models.QuestionLink, error)
}

type bankReader interface {
	SampleQuestions(ctx context.Context, subjectID int64, limit int) ([]models.Question, error)
}

type generatedWriter interface {
	InsertGeneratedQuestion(ctx context.Context, subjectID int64, q generator.GeneratedQuestion) (int64, error)
}

type questionGenerator interface {
	GenerateQuestions(ctx context.Context, subject, sourceMaterial string, count int) ([]generator.GeneratedQuestion, error)
}

// ── Bank Sampling ───────────────────────────────────────

type bankSource struct {
	bank bankReader
}

func (b *bankSource) source(ctx context.Context, plan models.SubjectPlan) ([]models.QuestionLink, error) {
	questions, err := b.bank.SampleQuestions(ctx, plan.SubjectID, plan.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("sample bank for subject %q: %w", plan.SubjectName, err)
	}

	links := make([]models.QuestionLink, 0, len(questions))
	for _, q := range questions {
		links = append(links, models.QuestionLink{
			QuestionID:    q.ID,
			Marks:         plan.MarksPerQuestion,
			NegativeMarks: plan.NegativeMarks,
		})
	}
	return links, nil
}

// ── Generative Sourcing ─────────────────────────────────

type generativeSource struct {
	bank      generatedWriter
	gen       questionGenerator
	materials content.Provider
}

func (g *generativeSource) source(ctx context.Context, plan models.SubjectPlan) ([]models.QuestionLink, error) {
	material, err := g.materials.MaterialFor(ctx, plan.SubjectName)
	if err != nil {
		return nil, fmt.Errorf("load source material for subject %q: %w", plan.SubjectName, err)
	}

	questions, err := g.gen.GenerateQuestions(ctx, plan.SubjectName, material, plan.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("generate questions for subject %q: %w", plan.SubjectName, err)
	}
	if len(questions) < plan.QuestionCount {
		log.Printf("[sourcing] subject %q: collaborator returned %d of %d requested questions",
			plan.SubjectName, len(questions), plan.QuestionCount)
	}

	// Persist each fresh question concurrently; ids land in slots indexed by
	// generation order so the link order is deterministic.
	ids := make([]int64, len(questions))
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, q := range questions {
		i, q := i, q
		grp.Go(func() error {
			id, err := g.bank.InsertGeneratedQuestion(grpCtx, plan.SubjectID, q)
			if err != nil {
				return fmt.Errorf("persist generated question for subject %q: %w", plan.SubjectName, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	links := make([]models.QuestionLink, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.QuestionLink{
			QuestionID:    id,
			Marks:         plan.MarksPerQuestion,
			NegativeMarks: plan.NegativeMarks,
		})
	}
	return links, nil
}
