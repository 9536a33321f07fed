package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// LLMClient is the interface all generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with the two exam-domain operations:
// producing fresh questions for a subject and analyzing a graded attempt.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI (local plan)")
	} else if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

// NewGeneratorWithClient is used by tests to inject a fake client.
func NewGeneratorWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuestions asks the collaborator for count exam-style questions on
// the given subject, grounded in the supplied source material. The result may
// hold fewer than count questions; callers accept the shortfall.
func (g *Generator) GenerateQuestions(ctx context.Context, subject, sourceMaterial string, count int) ([]GeneratedQuestion, error) {
	systemPrompt := QuestionSystemPrompt()
	userPrompt := BuildQuestionPrompt(subject, sourceMaterial, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions, err := ParseQuestionResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse question response: %w", err)
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// AnalysisInput carries the grading summary sent for performance analysis.
type AnalysisInput struct {
	Score            float64
	TotalMarks       float64
	WeakTopics       []string
	TimeTakenSeconds int
	CorrectCount     int
	WrongCount       int
	SkippedCount     int
}

// AnalyzePerformance produces a structured diagnosis for a graded attempt.
// Callers must treat a failure here as recoverable: grading never fails
// because analysis generation failed.
func (g *Generator) AnalyzePerformance(ctx context.Context, in AnalysisInput) (*PerformanceReport, error) {
	systemPrompt := AnalysisSystemPrompt()
	userPrompt := BuildAnalysisPrompt(in)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("analyze performance: %w", err)
	}

	report, err := ParseAnalysisResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	return report, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// callWithRetry retries transient API failures with exponential backoff.
// This is the retry boundary for collaborator calls; the assembler above it
// never retries.
func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			select {
			case <-time.After(sleepDuration):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var content string
	if isAnalysisPrompt(systemPrompt) {
		content = buildMockAnalysisJSON()
	} else {
		content = buildMockQuestionJSON()
	}
	return &LLMResponse{
		Content:      content,
		PromptTokens: 1200,
		OutputTokens: 2400,
	}, nil
}

func buildMockQuestionJSON() string {
	topics := []string{
		"fiscal policy", "constitutional amendments", "space missions",
		"international summits", "monetary policy",
	}

	questions := "["
	for i := 0; i < 5; i++ {
		topic := topics[i%len(topics)]
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(`{"question_text":"[Mock] Which statement about %s is accurate according to recent reports?","options":["[Mock] Option one about %s","[Mock] Option two about %s","[Mock] Option three about %s","[Mock] Option four about %s"],"correct_index":%d,"explanation":"[Mock] The correct option reflects the reported facts about %s."}`,
			topic, topic, topic, topic, topic, i%4, topic)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}

func buildMockAnalysisJSON() string {
	return `{"summary":"[Mock] A solid attempt with room to grow.","strengths":["[Mock] Good accuracy on attempted questions"],"weaknesses":["[Mock] Time management"],"action_plan":["[Mock] Revise weak topics daily","[Mock] Attempt one timed test per week"]}`
}
