package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"gorm.io/datatypes"
)

var ErrAIUnavailable = errors.New("AI service not configured")

type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateProposal produces a Markdown automation proposal from the combined
// onboarding answers.
func (s *AIService) GenerateProposal(ctx context.Context, projectName string, formData map[string]any) (string, error) {
	if s.client == nil {
		return "", ErrAIUnavailable
	}

	answers, err := json.MarshalIndent(formData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode form data: %w", err)
	}

	prompt := fmt.Sprintf(`You are an automation consultant. Based on the onboarding
questionnaire answers below, write a tailored automation proposal for the
project %q.

Questionnaire answers:
%s

Write the proposal in Markdown with these sections:
- Project Overview
- Recommended Solution (name concrete tools and integrations)
- Implementation Timeline
- Cost Estimate

Return only the Markdown document, no surrounding explanation.`, projectName, answers)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// ExtractDocumentData pulls structured project facts out of an uploaded
// document so they can be merged into the onboarding answers.
func (s *AIService) ExtractDocumentData(ctx context.Context, filePath string) (datatypes.JSON, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}

	prompt := fmt.Sprintf(`Extract the following information from the project document
stored at %q in JSON format:
- project_goals
- technical_requirements
- timeline
- budget_constraints
- tools_and_integrations

Return ONLY valid JSON with these fields, nothing else. Use null for
information the document does not contain.`, filePath)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("failed to parse AI response as JSON (response: %s)", content)
	}

	return datatypes.JSON(content), nil
}
