//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-eval/model"
)

func TestBuildChatRequest(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))
	maxTokens := 1024
	temperature := 0.0
	topP := 0.9
	request := &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage("system"),
			model.NewUserMessage("user"),
			model.NewAssistantMessage("assistant"),
		},
		GenerationConfig: model.GenerationConfig{
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			TopP:        &topP,
			Stop:        []string{"END"},
		},
	}

	chatRequest := m.buildChatRequest(request)
	assert.Equal(t, "gpt-4o-mini", string(chatRequest.Model))
	assert.Equal(t, int64(1024), chatRequest.MaxCompletionTokens.Value)
	assert.Equal(t, 0.0, chatRequest.Temperature.Value)
	assert.Equal(t, 0.9, chatRequest.TopP.Value)
	assert.Equal(t, []string{"END"}, chatRequest.Stop.OfStringArray)

	require.Len(t, chatRequest.Messages, 3)
	assert.NotNil(t, chatRequest.Messages[0].OfSystem)
	assert.NotNil(t, chatRequest.Messages[1].OfUser)
	assert.NotNil(t, chatRequest.Messages[2].OfAssistant)
}

func TestBuildChatRequestDefaults(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))
	chatRequest := m.buildChatRequest(&model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	assert.False(t, chatRequest.MaxCompletionTokens.Valid())
	assert.False(t, chatRequest.Temperature.Valid())
	assert.False(t, chatRequest.TopP.Valid())
	assert.Nil(t, chatRequest.Stop.OfStringArray)
}

func TestGenerateContentNilRequest(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))
	_, err := m.GenerateContent(context.Background(), nil)
	require.Error(t, err)
}

func TestInfo(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))
	assert.Equal(t, "gpt-4o-mini", m.Info().Name)
}
