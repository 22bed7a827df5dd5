//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-rag-eval/model"
)

// Verify that Model implements the model.Model interface.
var _ model.Model = (*Model)(nil)

// Model implements the model.Model interface for the Gemini API.
type Model struct {
	client            Client
	name              string
	channelBufferSize int
	safetySettings    []*genai.SafetySetting
}

// New creates a new Gemini-like model.
func New(ctx context.Context, name string, opts ...Option) (*Model, error) {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	client, err := genai.NewClient(ctx, o.geminiClientConfig)
	if err != nil {
		return nil, err
	}
	return &Model{
		client:            &clientWrapper{client: client},
		name:              name,
		channelBufferSize: o.channelBufferSize,
		safetySettings:    o.safetySettings,
	}, nil
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{
		Name: m.name,
	}
}

// GenerateContent implements the model.Model interface.
func (m *Model) GenerateContent(
	ctx context.Context,
	request *model.Request,
) (<-chan *model.Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}
	chatRequest := m.convertMessages(request.Messages)
	generateConfig := m.buildChatConfig(request)
	responseChan := make(chan *model.Response, m.channelBufferSize)
	go func() {
		defer close(responseChan)
		if request.Stream {
			m.handleStreamingResponse(ctx, chatRequest, responseChan, generateConfig)
		} else {
			m.handleNonStreamingResponse(ctx, chatRequest, responseChan, generateConfig)
		}
	}()
	return responseChan, nil
}

// handleNonStreamingResponse handles non-streaming chat completion responses.
func (m *Model) handleNonStreamingResponse(
	ctx context.Context,
	chatRequest []*genai.Content,
	responseChan chan<- *model.Response,
	generateConfig *genai.GenerateContentConfig,
) {
	chatCompletion, err := m.client.Models().GenerateContent(
		ctx, m.name, chatRequest, generateConfig)
	if err != nil {
		errorResponse := &model.Response{
			Error: &model.ResponseError{
				Message: err.Error(),
				Type:    model.ErrorTypeAPIError,
			},
			Timestamp: time.Now(),
			Done:      true,
		}
		select {
		case responseChan <- errorResponse:
		case <-ctx.Done():
		}
		return
	}
	response := m.buildChatCompletionResponse(chatCompletion, model.ObjectTypeChatCompletion, true, false)
	select {
	case responseChan <- response:
	case <-ctx.Done():
	}
}

// handleStreamingResponse handles streaming chat completion responses.
func (m *Model) handleStreamingResponse(
	ctx context.Context,
	chatRequest []*genai.Content,
	responseChan chan<- *model.Response,
	generateConfig *genai.GenerateContentConfig,
) {
	chatCompletion := m.client.Models().GenerateContentStream(
		ctx, m.name, chatRequest, generateConfig)
	var builder strings.Builder
	var finishReason string
	for chunk, err := range chatCompletion {
		if err != nil {
			errorResponse := &model.Response{
				Error: &model.ResponseError{
					Message: err.Error(),
					Type:    model.ErrorTypeStreamError,
				},
				Timestamp: time.Now(),
				Done:      true,
			}
			select {
			case responseChan <- errorResponse:
			case <-ctx.Done():
			}
			return
		}
		response := m.buildChatCompletionResponse(chunk, model.ObjectTypeChatCompletionChunk, false, true)
		for _, choice := range response.Choices {
			builder.WriteString(choice.Delta.Content)
			if choice.FinishReason != nil {
				finishReason = *choice.FinishReason
			}
		}
		select {
		case responseChan <- response:
		case <-ctx.Done():
			return
		}
	}
	finalResponse := &model.Response{
		Object:    model.ObjectTypeChatCompletion,
		Model:     m.name,
		Timestamp: time.Now(),
		Done:      true,
		Choices: []model.Choice{
			{
				Index:   0,
				Message: model.NewAssistantMessage(builder.String()),
			},
		},
	}
	if finishReason != "" {
		finalResponse.Choices[0].FinishReason = &finishReason
	}
	select {
	case responseChan <- finalResponse:
	case <-ctx.Done():
	}
}

// convertContentBlock builds a single assistant message from Gemini candidates.
func (m *Model) convertContentBlock(candidates []*genai.Candidate) (model.Message, string) {
	var (
		textBuilder  strings.Builder
		finishReason string
	)
	for _, candidate := range candidates {
		if candidate.FinishReason != "" {
			finishReason = string(candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			// Skip thought parts, judges only consume the answer text.
			if part.Text != "" && !part.Thought {
				textBuilder.WriteString(part.Text)
			}
		}
	}
	return model.Message{
		Role:    model.RoleAssistant,
		Content: textBuilder.String(),
	}, finishReason
}

func (m *Model) buildChatCompletionResponse(
	rsp *genai.GenerateContentResponse,
	object string,
	done bool,
	isPartial bool,
) *model.Response {
	if rsp == nil {
		return &model.Response{
			Object:    object,
			IsPartial: isPartial,
			Done:      done,
		}
	}
	response := &model.Response{
		ID:        rsp.ResponseID,
		Object:    object,
		Created:   rsp.CreateTime.Unix(),
		Model:     rsp.ModelVersion,
		Timestamp: rsp.CreateTime,
		Done:      done,
		IsPartial: isPartial,
	}
	message, finishReason := m.convertContentBlock(rsp.Candidates)
	if isPartial {
		// Streaming chunk: only populate Delta, matching the OpenAI pattern
		// where streaming chunks carry incremental deltas.
		response.Choices = []model.Choice{
			{
				Index: 0,
				Delta: message,
			},
		}
	} else {
		response.Choices = []model.Choice{
			{
				Index:   0,
				Message: message,
			},
		}
	}
	if finishReason != "" {
		response.Choices[0].FinishReason = &finishReason
	}
	response.Usage = m.completionUsageToModelUsage(rsp.UsageMetadata)
	return response
}

// completionUsageToModelUsage converts genai usage metadata to model.Usage.
func (m *Model) completionUsageToModelUsage(usage *genai.GenerateContentResponseUsageMetadata) *model.Usage {
	if usage == nil {
		return nil
	}
	return &model.Usage{
		PromptTokens:     int(usage.PromptTokenCount),
		CompletionTokens: int(usage.CandidatesTokenCount),
		TotalTokens:      int(usage.TotalTokenCount),
	}
}

// buildChatConfig converts our Request to a Gemini request config.
func (m *Model) buildChatConfig(request *model.Request) *genai.GenerateContentConfig {
	chatRequest := &genai.GenerateContentConfig{
		SafetySettings: m.safetySettings,
	}
	if request.MaxTokens != nil {
		chatRequest.MaxOutputTokens = int32(*request.MaxTokens)
	}
	if request.Temperature != nil {
		chatRequest.Temperature = genai.Ptr(float32(*request.Temperature))
	}
	if request.TopP != nil {
		chatRequest.TopP = genai.Ptr(float32(*request.TopP))
	}
	if len(request.Stop) > 0 {
		chatRequest.StopSequences = request.Stop
	}
	return chatRequest
}

// convertMessages converts our Message format to Gemini's format.
func (m *Model) convertMessages(messages []model.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	return result
}
