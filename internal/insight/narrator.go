package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fantasy-trends/internal/trends"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// DashboardSource provides the week summary the insights are drawn from.
type DashboardSource interface {
	Dashboard(ctx context.Context, week int) (trends.DashboardView, error)
}

type InsightService struct {
	tracer    trace.Tracer
	dashboard DashboardSource
	llm       LLMClient
	model     string
}

// NewInsightService builds the service. A nil llm disables narration.
func NewInsightService(tracer trace.Tracer, dashboard DashboardSource, llm LLMClient, model string) *InsightService {
	return &InsightService{
		tracer:    tracer,
		dashboard: dashboard,
		llm:       llm,
		model:     model,
	}
}

// Weekly builds the report for week (0 = latest). When narration is enabled
// and succeeds, Narrative holds the model's summary; otherwise it holds the
// joined rule text.
func (s *InsightService) Weekly(ctx context.Context, week int) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "insight.weekly")
	defer span.End()

	view, err := s.dashboard.Dashboard(ctx, week)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}
	report := Build(view)
	span.SetAttributes(attribute.Int("week", report.Week))

	report.Narrative = RuleText(report)
	if s.llm == nil {
		return report, nil
	}
	narrative, err := s.narrate(ctx, report)
	if err != nil {
		log.Printf("insight narration failed, using rule text: %v", err)
		return report, nil
	}
	report.Narrative = narrative
	return report, nil
}

func (s *InsightService) narrate(ctx context.Context, report Report) (string, error) {
	ctx, span := s.tracer.Start(ctx, "insight.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", s.model))

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analystPrompt),
			openai.UserMessage(FormatReport(report)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}
	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty LLM reply")
	}
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
