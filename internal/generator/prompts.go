package generator

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are an expert setter of competitive-exam multiple choice questions.

You write QUESTIONS in the style of national competitive examinations:
- One clearly correct answer per question.
- Four OPTIONS per question, plausible distractors, no "all of the above".
- Questions must be answerable from the provided SOURCE MATERIAL alone.
- Neutral, factual register. No trick wording.

You respond with JSON ONLY, no prose, in exactly this shape:
{"questions":[{"question_text":"...","options":["...","...","...","..."],"correct_index":0,"explanation":"..."}]}

correct_index is 0-based into the options array. explanation states briefly why
the correct option is correct.`

const analysisSystemPrompt = `You are a performance coach for competitive-exam students.

Given a graded mock test result, you produce a short structured diagnosis.
Be encouraging but concrete. Reference the weak topics by name.

You respond with JSON ONLY, no prose, in exactly this shape:
{"summary":"...","strengths":["..."],"weaknesses":["..."],"action_plan":["..."]}`

func QuestionSystemPrompt() string {
	return questionSystemPrompt
}

func AnalysisSystemPrompt() string {
	return analysisSystemPrompt
}

func isAnalysisPrompt(systemPrompt string) bool {
	return strings.Contains(systemPrompt, "performance coach")
}

// BuildQuestionPrompt asks for count questions on subject, grounded in the
// supplied source material.
func BuildQuestionPrompt(subject, sourceMaterial string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d multiple choice questions for the subject %q.\n\n", count, subject)
	b.WriteString("SOURCE MATERIAL:\n")
	if strings.TrimSpace(sourceMaterial) == "" {
		b.WriteString("(none supplied — draw on standard syllabus topics for this subject)\n")
	} else {
		b.WriteString(sourceMaterial)
		b.WriteString("\n")
	}
	b.WriteString("\nRequirements:\n")
	b.WriteString("- 4 options per question, correct_index 0-based\n")
	b.WriteString("- every question answerable from the source material\n")
	b.WriteString("- include an explanation per question\n")
	b.WriteString("- respond with the JSON object only\n")

	return b.String()
}

// BuildAnalysisPrompt serializes a graded attempt for the analysis call.
func BuildAnalysisPrompt(in AnalysisInput) string {
	var b strings.Builder

	b.WriteString("Analyze this mock test attempt.\n\n")
	fmt.Fprintf(&b, "Score: %.2f out of %.2f\n", in.Score, in.TotalMarks)
	fmt.Fprintf(&b, "Correct: %d, Wrong: %d, Skipped: %d\n", in.CorrectCount, in.WrongCount, in.SkippedCount)
	fmt.Fprintf(&b, "Time taken: %d seconds\n", in.TimeTakenSeconds)
	if len(in.WeakTopics) > 0 {
		fmt.Fprintf(&b, "Topics behind wrong answers: %s\n", strings.Join(in.WeakTopics, ", "))
	} else {
		b.WriteString("Topics behind wrong answers: none\n")
	}
	b.WriteString("\nRespond with the JSON object only: summary, strengths, weaknesses, action_plan.\n")

	return b.String()
}
