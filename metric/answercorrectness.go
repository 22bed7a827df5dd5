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
	"text/template"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
)

var (
	// answerCorrectnessClassifyPrompt asks the judge to cross-check the
	// predicted answer against the ideal answer statement by statement.
	answerCorrectnessClassifyPrompt = `Given a question, an answer, and a ground truth answer, analyze each statement in the answer and the ground truth and classify them into one of the following categories:

- TP (true positive): statements present in the answer that are directly supported by one or more statements in the ground truth.
- FP (false positive): statements present in the answer that are not supported by any statement in the ground truth.
- FN (false negative): statements present in the ground truth that are missing from the answer.

Question: {{.Question}}

Answer: {{.Answer}}

Ground truth: {{.GroundTruth}}

The output should be a json alone which follows the json structure below:
{
  "TP": ["statement", ...],
  "FP": ["statement", ...],
  "FN": ["statement", ...]
}
`

	answerCorrectnessClassifyTemplate = template.Must(
		template.New("answerCorrectnessClassify").Parse(answerCorrectnessClassifyPrompt))
)

// answerCorrectnessEvaluator scores factual overlap between the predicted
// answer and the ideal answer.
type answerCorrectnessEvaluator struct {
	opts *options
}

// newAnswerCorrectness builds the answer correctness evaluator.
func newAnswerCorrectness(o *options) (*answerCorrectnessEvaluator, error) {
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", NameAnswerCorrectness)
	}
	return &answerCorrectnessEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *answerCorrectnessEvaluator) Name() string {
	return NameAnswerCorrectness
}

// Description describes the metric.
func (e *answerCorrectnessEvaluator) Description() string {
	return "F1 over statements classified as true positive, false positive, and false negative against the ideal answer"
}

// Evaluate classifies statements and computes
// F1 = |TP| / (|TP| + 0.5 * (|FP| + |FN|)).
func (e *answerCorrectnessEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	prompt, err := renderPrompt(answerCorrectnessClassifyTemplate, struct {
		Question    string
		Answer      string
		GroundTruth string
	}{
		Question:    record.Query,
		Answer:      record.PredictedAnswer,
		GroundTruth: record.IdealAnswer,
	})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, fmt.Errorf("classify statements: %w", err)
	}
	var parsed struct {
		TP []string `json:"TP"`
		FP []string `json:"FP"`
		FN []string `json:"FN"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	tp := float64(len(parsed.TP))
	fp := float64(len(parsed.FP))
	fn := float64(len(parsed.FN))
	score := 0.0
	if denominator := tp + 0.5*(fp+fn); denominator > 0 {
		score = tp / denominator
	}
	return &Result{
		Score: score,
		Details: map[string]any{
			"tp": parsed.TP,
			"fp": parsed.FP,
			"fn": parsed.FN,
		},
	}, nil
}
