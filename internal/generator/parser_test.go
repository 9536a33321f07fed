package generator

import (
	"encoding/json"
	"testing"
)

func validSetJSON(count int) string {
	set := generatedSet{Questions: make([]GeneratedQuestion, count)}
	for i := 0; i < count; i++ {
		set.Questions[i] = GeneratedQuestion{
			QuestionText: "Which article of the constitution covers this provision?",
			Options:      []string{"Article 14", "Article 19", "Article 21", "Article 32"},
			CorrectIndex: i % 4,
			Explanation:  "The cited article is the one that establishes this provision.",
		}
	}
	data, _ := json.Marshal(set)
	return string(data)
}

func TestParseQuestionResponse_ValidJSON(t *testing.T) {
	questions, err := ParseQuestionResponse(validSetJSON(5))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
	}
}

func TestParseQuestionResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validSetJSON(3) + "\n```"

	questions, err := ParseQuestionResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(questions))
	}
}

func TestParseQuestionResponse_DropsInvalidQuestions(t *testing.T) {
	set := generatedSet{Questions: []GeneratedQuestion{
		{
			QuestionText: "A well-formed question?",
			Options:      []string{"yes", "no"},
			CorrectIndex: 0,
		},
		{
			QuestionText: "", // invalid: empty text
			Options:      []string{"yes", "no"},
			CorrectIndex: 0,
		},
		{
			QuestionText: "Out of range index?",
			Options:      []string{"yes", "no"},
			CorrectIndex: 5, // invalid
		},
	}}
	data, _ := json.Marshal(set)

	questions, err := ParseQuestionResponse(string(data))
	if err != nil {
		t.Fatalf("expected partial batch to survive, got: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 surviving question, got %d", len(questions))
	}
	if questions[0].QuestionText != "A well-formed question?" {
		t.Errorf("wrong question survived: %q", questions[0].QuestionText)
	}
}

func TestParseQuestionResponse_AllInvalid(t *testing.T) {
	set := generatedSet{Questions: []GeneratedQuestion{
		{QuestionText: "", Options: []string{"a", "b"}},
		{QuestionText: "q", Options: []string{"only one"}},
	}}
	data, _ := json.Marshal(set)

	_, err := ParseQuestionResponse(string(data))
	if err == nil {
		t.Fatal("expected error when every question fails validation")
	}
}

func TestParseQuestionResponse_EmptyBatch(t *testing.T) {
	_, err := ParseQuestionResponse(`{"questions": []}`)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestParseQuestionResponse_MalformedJSON(t *testing.T) {
	_, err := ParseQuestionResponse("this is not json at all")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateQuestion_EmptyOption(t *testing.T) {
	err := validateQuestion(GeneratedQuestion{
		QuestionText: "q",
		Options:      []string{"a", "  ", "c"},
		CorrectIndex: 0,
	})
	if err == nil {
		t.Fatal("expected error for blank option text")
	}
}

func TestParseAnalysisResponse_Valid(t *testing.T) {
	report, err := ParseAnalysisResponse(`{
		"summary": "A focused attempt.",
		"strengths": ["Polity"],
		"weaknesses": ["Economy", "Geography"],
		"action_plan": ["Revise map work daily"]
	}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if report.Summary != "A focused attempt." {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
	if len(report.Weaknesses) != 2 {
		t.Errorf("expected 2 weaknesses, got %d", len(report.Weaknesses))
	}
}

func TestParseAnalysisResponse_EmptySummary(t *testing.T) {
	_, err := ParseAnalysisResponse(`{"summary": "  ", "strengths": [], "weaknesses": [], "action_plan": []}`)
	if err == nil {
		t.Fatal("expected error for empty summary")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"plain":           "plain",
		"```json\n{}\n```": "{}",
		"```\n{}\n```":     "{}",
		"  {} ":           "{}",
	}
	for input, want := range cases {
		if got := stripCodeFences(input); got != want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", input, got, want)
		}
	}
}
