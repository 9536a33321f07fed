package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// GeneratedQuestion is one question as returned by the collaborator, before
// it is persisted into the bank.
type GeneratedQuestion struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

type generatedSet struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// PerformanceReport is the collaborator's structured diagnosis of an attempt.
type PerformanceReport struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	ActionPlan []string `json:"action_plan"`
}

// ParseQuestionResponse parses and structurally validates a question batch.
// Malformed individual questions are dropped with a warning rather than
// failing the batch; the shortfall policy is decided upstream. An empty or
// unparseable response is an error.
func ParseQuestionResponse(responseBody string) ([]GeneratedQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	var set generatedSet
	if err := json.Unmarshal([]byte(cleaned), &set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}

	var valid []GeneratedQuestion
	for i, q := range set.Questions {
		if err := validateQuestion(q); err != nil {
			log.Printf("WARN: dropping generated question %d: %v", i+1, err)
			continue
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("all %d generated questions failed validation", len(set.Questions))
	}
	return valid, nil
}

func validateQuestion(q GeneratedQuestion) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("empty question_text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("expected at least 2 options, got %d", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct_index %d out of range for %d options", q.CorrectIndex, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	return nil
}

// ParseAnalysisResponse parses a performance analysis. A missing summary is
// treated as malformed content so the caller falls back to static feedback.
func ParseAnalysisResponse(responseBody string) (*PerformanceReport, error) {
	cleaned := stripCodeFences(responseBody)

	var report PerformanceReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if strings.TrimSpace(report.Summary) == "" {
		return nil, fmt.Errorf("analysis has empty summary")
	}
	return &report, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
