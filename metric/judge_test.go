//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudgeText(t *testing.T) {
	judge := &fakeJudge{replies: []string{`{"ok": true}`}}
	text, err := judgeText(context.Background(), judge, DefaultGeneration, "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	require.Len(t, judge.prompts, 1)
	assert.Equal(t, "prompt", judge.prompts[0])
}

func TestJudgeTextNilModel(t *testing.T) {
	_, err := judgeText(context.Background(), nil, DefaultGeneration, "prompt")
	require.Error(t, err)
}

func TestJudgeTextGenerateError(t *testing.T) {
	judge := &fakeJudge{err: errors.New("boom")}
	_, err := judgeText(context.Background(), judge, DefaultGeneration, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate response")
}

func TestDecodeJudgeJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantErr bool
	}{
		{
			name: "plain object",
			text: `{"statements": ["a", "b"]}`,
			want: []string{"a", "b"},
		},
		{
			name: "fenced json",
			text: "```json\n{\"statements\": [\"a\"]}\n```",
			want: []string{"a"},
		},
		{
			name: "fenced without language tag",
			text: "```\n{\"statements\": [\"a\"]}\n```",
			want: []string{"a"},
		},
		{
			name: "surrounding prose",
			text: "Here you go:\n{\"statements\": [\"a\"]}\nHope this helps.",
			want: []string{"a"},
		},
		{
			name:    "no object",
			text:    "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "malformed object",
			text:    `{"statements": [`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed struct {
				Statements []string `json:"statements"`
			}
			err := decodeJudgeJSON(tt.text, &parsed)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.Statements)
		})
	}
}

func TestIsYes(t *testing.T) {
	assert.True(t, isYes("yes"))
	assert.True(t, isYes(" Yes "))
	assert.True(t, isYes("TRUE"))
	assert.True(t, isYes("1"))
	assert.False(t, isYes("no"))
	assert.False(t, isYes(""))
	assert.False(t, isYes("maybe"))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.7))
}

func TestNumberChunks(t *testing.T) {
	got := numberChunks([]string{"first", " second "})
	assert.Equal(t, "[1] first\n[2] second\n", got)
}
