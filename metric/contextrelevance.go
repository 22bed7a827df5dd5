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
	"fmt"
	"strings"
	"text/template"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/internal/senttokenize"
	"trpc.group/trpc-go/trpc-rag-eval/log"
)

// contextRelevanceInsufficient is the marker judges return when a chunk
// contains nothing relevant to the question.
const contextRelevanceInsufficient = "Insufficient Information"

var (
	// contextRelevanceSentencesPrompt asks the judge to extract the
	// sentences of a chunk required to answer the question.
	contextRelevanceSentencesPrompt = `Given a question and a context chunk, extract verbatim the sentences from the chunk that are strictly required to answer the question. If no sentence is relevant, return the single string "Insufficient Information" instead.

Question: {{.Question}}

Context chunk:
{{.Chunk}}

The output should be a json alone which follows the json structure below:
{
  "sentences": ["sentence 1", "sentence 2", ...]
}
`

	contextRelevanceSentencesTemplate = template.Must(
		template.New("contextRelevanceSentences").Parse(contextRelevanceSentencesPrompt))
)

// contextRelevanceEvaluator scores how much of the retrieved context is
// actually needed to answer the question.
type contextRelevanceEvaluator struct {
	opts *options
}

// newContextRelevance builds the context relevance evaluator.
func newContextRelevance(o *options) (*contextRelevanceEvaluator, error) {
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", NameContextRelevance)
	}
	return &contextRelevanceEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *contextRelevanceEvaluator) Name() string {
	return NameContextRelevance
}

// Description describes the metric.
func (e *contextRelevanceEvaluator) Description() string {
	return "Mean fraction of sentences per chunk that are necessary to answer the question"
}

// Evaluate extracts necessary sentences per chunk and averages the
// necessary-to-total sentence ratios.
func (e *contextRelevanceEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	chunks := record.ContextTexts()
	if len(chunks) == 0 {
		return &Result{Score: 0}, nil
	}
	scores := make([]float64, 0, len(chunks))
	var sum float64
	for i, chunk := range chunks {
		score, err := e.scoreChunk(ctx, record.Query, chunk)
		if err != nil {
			return nil, fmt.Errorf("score chunk %d: %w", i+1, err)
		}
		scores = append(scores, score)
		sum += score
	}
	return &Result{
		Score: sum / float64(len(chunks)),
		Details: map[string]any{
			"chunk_scores": scores,
		},
	}, nil
}

// scoreChunk returns the necessary-sentence ratio for one chunk.
func (e *contextRelevanceEvaluator) scoreChunk(ctx context.Context, question, chunk string) (float64, error) {
	total, err := senttokenize.Tokenize(chunk)
	if err != nil {
		return 0, fmt.Errorf("tokenize chunk: %w", err)
	}
	if len(total) == 0 {
		return 0, nil
	}
	extracted, err := e.extractSentences(ctx, question, chunk)
	if err != nil {
		return 0, err
	}
	if len(extracted) > len(total) {
		log.Debugf("context relevance: judge extracted %d sentences from a %d-sentence chunk",
			len(extracted), len(total))
		extracted = extracted[:len(total)]
	}
	return float64(len(extracted)) / float64(len(total)), nil
}

// extractSentences asks the judge for the chunk sentences needed to answer
// the question. An "Insufficient Information" marker yields no sentences.
func (e *contextRelevanceEvaluator) extractSentences(ctx context.Context, question, chunk string) ([]string, error) {
	prompt, err := renderPrompt(contextRelevanceSentencesTemplate, struct {
		Question string
		Chunk    string
	}{Question: question, Chunk: chunk})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Sentences []string `json:"sentences"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	sentences := make([]string, 0, len(parsed.Sentences))
	for _, sentence := range parsed.Sentences {
		s := strings.TrimSpace(sentence)
		if s == "" || strings.EqualFold(s, contextRelevanceInsufficient) {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}
