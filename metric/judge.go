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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"trpc.group/trpc-go/trpc-rag-eval/model"
)

// judgeText sends a single-turn prompt to the judge model and returns the
// final response text.
func judgeText(ctx context.Context, judgeModel model.Model,
	generation model.GenerationConfig, prompt string) (string, error) {
	if judgeModel == nil {
		return "", fmt.Errorf("judge model is required")
	}
	req := model.Request{
		Messages:         []model.Message{model.NewUserMessage(prompt)},
		GenerationConfig: generation,
	}
	req.GenerationConfig.Stream = false
	responses, err := judgeModel.GenerateContent(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	for response := range responses {
		if response.Error != nil {
			return "", fmt.Errorf("response error: %v", response.Error.Message)
		}
		if response.IsFinalResponse() {
			return response.Text(), nil
		}
	}
	return "", fmt.Errorf("no final response")
}

// renderPrompt executes the prompt template with the given data.
func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// decodeJudgeJSON parses a JSON object from judge output. Judges frequently
// wrap the object in markdown fences or surrounding prose, so the first
// balanced top-level object is extracted before unmarshalling.
func decodeJudgeJSON(text string, v any) error {
	cleaned := stripCodeFences(text)
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in judge output: %q", truncate(text, 200))
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("parse judge output: %w", err)
	}
	return nil
}

// stripCodeFences removes markdown code fences around judge output.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag such as "json".
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}") {
			trimmed = trimmed[idx+1:]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "```"))
}

// isYes reports whether a judge verdict counts as affirmative.
func isYes(verdict string) bool {
	v := strings.ToLower(strings.TrimSpace(verdict))
	return v == "yes" || v == "true" || v == "1"
}

// truncate shortens s for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// clamp01 clamps the score to [0, 1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// numberChunks formats context chunks as a numbered list for judge prompts.
func numberChunks(chunks []string) string {
	var builder strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&builder, "[%d] %s\n", i+1, strings.TrimSpace(chunk))
	}
	return builder.String()
}
