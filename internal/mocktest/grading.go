package mocktest

import (
	"sort"

	"github.com/prepmock/backend/internal/models"
)

// GradeResult is the outcome of scoring one submission against a test's
// question links.
type GradeResult struct {
	Score            float64
	TotalMarks       float64
	CorrectCount     int
	WrongCount       int
	SkippedCount     int
	TimeTakenSeconds int
	WeakTopics       []string
	Answers          []models.AnswerRecord
}

// GradeAttempt scores submitted answers against a test's links under
// negative marking. Each answer is matched to its link in constant time via
// an id-keyed map built once per call.
//
// Rules, iterating answers in input order:
//   - an answer with no matching link contributes nothing at all;
//   - a correct selection adds the link's marks;
//   - a wrong (non-nil) selection subtracts the link's negative marks and
//     records the question's subject as a weak topic;
//   - a nil selection counts as neither correct nor wrong.
//
// SkippedCount is derived as len(links) - correct - wrong, so questions
// missing from the submission entirely are skipped too. Time taken is summed
// over matched answers regardless of correctness. The score has no floor:
// heavy negative marking can push it below zero.
func GradeAttempt(links []models.ScoringLink, answers []models.SubmittedAnswer) GradeResult {
	byQuestion := make(map[int64]models.ScoringLink, len(links))
	var totalMarks float64
	for _, link := range links {
		byQuestion[link.QuestionID] = link
		totalMarks += link.Marks
	}

	result := GradeResult{TotalMarks: totalMarks}
	weakTopics := make(map[string]bool)

	for _, ans := range answers {
		link, ok := byQuestion[ans.QuestionID]
		if !ok {
			continue
		}

		result.TimeTakenSeconds += ans.TimeTakenSeconds

		record := models.AnswerRecord{
			QuestionID:       ans.QuestionID,
			SelectedIndex:    ans.SelectedIndex,
			TimeTakenSeconds: ans.TimeTakenSeconds,
		}

		switch {
		case ans.SelectedIndex == nil:
			// Explicit skip: neither correct nor wrong.
		case *ans.SelectedIndex == link.CorrectIndex:
			result.Score += link.Marks
			result.CorrectCount++
			record.IsCorrect = true
		default:
			result.Score -= link.NegativeMarks
			result.WrongCount++
			if link.SubjectName != "" {
				weakTopics[link.SubjectName] = true
			}
		}

		result.Answers = append(result.Answers, record)
	}

	result.SkippedCount = len(links) - result.CorrectCount - result.WrongCount

	for topic := range weakTopics {
		result.WeakTopics = append(result.WeakTopics, topic)
	}
	sort.Strings(result.WeakTopics)

	return result
}
