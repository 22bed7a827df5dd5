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

var (
	// contextRecallVerdictsPrompt asks the judge to attribute each answer
	// sentence to the context.
	contextRecallVerdictsPrompt = `Given a question, a context, and an answer broken into sentences, classify each sentence as attributable to the context or not. Return "yes" if the sentence can be attributed to the context, and "no" otherwise.

Question: {{.Question}}

Context:
{{.Context}}

Answer sentences:
{{.Sentences}}

The output should be a json alone which follows the json structure below:
{
  "verdicts": [
    {"sentence": "sentence 1", "attributed": "yes or no"},
    ...
  ]
}
Return one verdict per sentence, in order.
`

	contextRecallVerdictsTemplate = template.Must(
		template.New("contextRecallVerdicts").Parse(contextRecallVerdictsPrompt))
)

// contextRecallEvaluator scores whether the retrieved context covers the
// predicted answer.
type contextRecallEvaluator struct {
	opts *options
}

// newContextRecall builds the context recall evaluator.
func newContextRecall(o *options) (*contextRecallEvaluator, error) {
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", NameContextRecall)
	}
	return &contextRecallEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *contextRecallEvaluator) Name() string {
	return NameContextRecall
}

// Description describes the metric.
func (e *contextRecallEvaluator) Description() string {
	return "Fraction of predicted answer sentences attributable to the retrieved context"
}

// contextRecallVerdict pairs an answer sentence with the judge verdict.
type contextRecallVerdict struct {
	Sentence   string `json:"sentence"`
	Attributed string `json:"attributed"`
}

// Evaluate splits the predicted answer into sentences and checks each
// against the context. Score is attributed sentences over total sentences.
func (e *contextRecallEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	sentences, err := senttokenize.Tokenize(record.PredictedAnswer)
	if err != nil {
		return nil, fmt.Errorf("tokenize predicted answer: %w", err)
	}
	if len(sentences) == 0 {
		log.Debugf("context recall: predicted answer has no sentences for record %s", record.ID)
		return &Result{Score: 0}, nil
	}
	verdicts, err := e.judgeSentences(ctx, record.Query, record.ContextTexts(), sentences)
	if err != nil {
		return nil, fmt.Errorf("judge sentences: %w", err)
	}
	attributed := 0
	for _, verdict := range verdicts {
		if isYes(verdict.Attributed) {
			attributed++
		}
	}
	return &Result{
		Score: float64(attributed) / float64(len(sentences)),
		Details: map[string]any{
			"sentences": sentences,
			"verdicts":  verdicts,
		},
	}, nil
}

// judgeSentences returns an attribution verdict per answer sentence.
func (e *contextRecallEvaluator) judgeSentences(ctx context.Context,
	question string, contexts, sentences []string) ([]contextRecallVerdict, error) {
	prompt, err := renderPrompt(contextRecallVerdictsTemplate, struct {
		Question  string
		Context   string
		Sentences string
	}{
		Question:  question,
		Context:   strings.Join(contexts, "\n"),
		Sentences: numberChunks(sentences),
	})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Verdicts []contextRecallVerdict `json:"verdicts"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Verdicts) != len(sentences) {
		log.Warnf("context recall: expected %d verdicts, judge returned %d",
			len(sentences), len(parsed.Verdicts))
	}
	// Missing verdicts count as unattributed.
	if len(parsed.Verdicts) > len(sentences) {
		parsed.Verdicts = parsed.Verdicts[:len(sentences)]
	}
	return parsed.Verdicts, nil
}
