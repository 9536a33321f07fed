package mocktest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/prepmock/backend/internal/content"
	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/models"
)

// Assembler turns a subject plan list into one flat, scored question-link
// list for a new test. Every subject is sourced concurrently, so assembly
// latency is bounded by the slowest subject rather than the sum of all of
// them.
type Assembler struct {
	bank       questionSource
	generative questionSource
}

func NewAssembler(store *Store, gen *generator.Generator, materials content.Provider) *Assembler {
	return &Assembler{
		bank:       &bankSource{bank: store},
		generative: &generativeSource{bank: store, gen: gen, materials: materials},
	}
}

func (a *Assembler) sourceFor(plan models.SubjectPlan) questionSource {
	if plan.SourcingMode == models.SourcingGenerative {
		return a.generative
	}
	return a.bank
}

// Assemble fans out one sourcing task per plan and joins them all-or-nothing:
// any task failure cancels the siblings and aborts the whole assembly. Links
// are concatenated by plan index, never by completion order, so the final
// question order always follows the course's order_index even though sourcing
// is concurrent. Returns the flat link list and the total marks across it.
func (a *Assembler) Assemble(ctx context.Context, plans []models.SubjectPlan) ([]models.QuestionLink, float64, error) {
	results := make([][]models.QuestionLink, len(plans))

	grp, grpCtx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		grp.Go(func() error {
			links, err := a.sourceFor(plan).source(grpCtx, plan)
			if err != nil {
				return fmt.Errorf("subject %q: %w", plan.SubjectName, err)
			}
			results[i] = links
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, 0, err
	}

	var flat []models.QuestionLink
	var totalMarks float64
	for _, links := range results {
		for _, link := range links {
			totalMarks += link.Marks
			flat = append(flat, link)
		}
	}
	return flat, totalMarks, nil
}
