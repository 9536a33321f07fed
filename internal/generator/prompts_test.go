package generator

import (
	"strings"
	"testing"
)

func TestBuildQuestionPrompt_IncludesSubjectCountAndMaterial(t *testing.T) {
	prompt := BuildQuestionPrompt("Current Affairs", "Parliament passed the data protection bill this week.", 5)

	if !strings.Contains(prompt, "exactly 5") {
		t.Error("prompt should request the exact question count")
	}
	if !strings.Contains(prompt, `"Current Affairs"`) {
		t.Error("prompt should name the subject")
	}
	if !strings.Contains(prompt, "data protection bill") {
		t.Error("prompt should carry the source material")
	}
}

func TestBuildQuestionPrompt_EmptyMaterialFallsBackToSyllabus(t *testing.T) {
	prompt := BuildQuestionPrompt("Polity", "   ", 3)

	if !strings.Contains(prompt, "standard syllabus topics") {
		t.Error("prompt should direct the collaborator to syllabus topics when no material exists")
	}
}

func TestBuildAnalysisPrompt_CarriesGradingOutcome(t *testing.T) {
	prompt := BuildAnalysisPrompt(AnalysisInput{
		Score: 7.5, TotalMarks: 20,
		CorrectCount: 4, WrongCount: 6, SkippedCount: 0,
		TimeTakenSeconds: 1500,
		WeakTopics:       []string{"Economy", "Geography"},
	})

	if !strings.Contains(prompt, "7.50 out of 20.00") {
		t.Errorf("prompt should state the score, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Economy, Geography") {
		t.Error("prompt should list the weak topics")
	}
	if !strings.Contains(prompt, "Correct: 4, Wrong: 6, Skipped: 0") {
		t.Error("prompt should carry the answer counts")
	}
}

func TestBuildAnalysisPrompt_NoWeakTopics(t *testing.T) {
	prompt := BuildAnalysisPrompt(AnalysisInput{Score: 20, TotalMarks: 20, CorrectCount: 10})

	if !strings.Contains(prompt, "none") {
		t.Error("prompt should state that no weak topics were found")
	}
}

func TestSystemPrompts_DispatchMarker(t *testing.T) {
	if isAnalysisPrompt(QuestionSystemPrompt()) {
		t.Error("question prompt must not be detected as analysis")
	}
	if !isAnalysisPrompt(AnalysisSystemPrompt()) {
		t.Error("analysis prompt must be detected as analysis")
	}
}
