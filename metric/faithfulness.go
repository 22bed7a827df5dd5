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
	"trpc.group/trpc-go/trpc-rag-eval/log"
)

var (
	// faithfulnessStatementsPrompt asks the judge to decompose the answer
	// into standalone statements.
	faithfulnessStatementsPrompt = `Given a question and an answer, break the answer down into one or more fully understandable, self-contained statements. Each statement must not use pronouns whose referent is outside the statement.

Question: {{.Question}}
Answer: {{.Answer}}

The output should be a json alone which follows the json structure below:
{
  "statements": ["statement 1", "statement 2", ...]
}
`
	// faithfulnessVerdictsPrompt asks the judge to check each statement
	// against the context.
	faithfulnessVerdictsPrompt = `Your task is to judge the faithfulness of a series of statements based on the given context. For each statement, return "yes" if the statement can be directly inferred from the context, and "no" if it cannot.

Context:
{{.Context}}

Statements:
{{.Statements}}

The output should be a json alone which follows the json structure below:
{
  "verdicts": [
    {"statement": "statement 1", "verdict": "yes or no"},
    ...
  ]
}
Return one verdict per statement, in order.
`

	faithfulnessStatementsTemplate = template.Must(
		template.New("faithfulnessStatements").Parse(faithfulnessStatementsPrompt))
	faithfulnessVerdictsTemplate = template.Must(
		template.New("faithfulnessVerdicts").Parse(faithfulnessVerdictsPrompt))
)

// faithfulnessEvaluator scores whether the predicted answer is grounded in
// the retrieved context.
type faithfulnessEvaluator struct {
	opts *options
}

// newFaithfulness builds the faithfulness evaluator.
func newFaithfulness(o *options) (*faithfulnessEvaluator, error) {
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", NameFaithfulness)
	}
	return &faithfulnessEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *faithfulnessEvaluator) Name() string {
	return NameFaithfulness
}

// Description describes the metric.
func (e *faithfulnessEvaluator) Description() string {
	return "Fraction of answer statements that are supported by the retrieved context"
}

// Evaluate extracts statements from the answer and checks each against the
// context. Score is supported statements over total statements.
func (e *faithfulnessEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	statements, err := e.extractStatements(ctx, record.Query, record.PredictedAnswer)
	if err != nil {
		return nil, fmt.Errorf("extract statements: %w", err)
	}
	if len(statements) == 0 {
		log.Debugf("faithfulness: no statements extracted for record %s", record.ID)
		return &Result{Score: 0}, nil
	}
	verdicts, err := e.judgeStatements(ctx, record.ContextTexts(), statements)
	if err != nil {
		return nil, fmt.Errorf("judge statements: %w", err)
	}
	supported := 0
	for _, verdict := range verdicts {
		if isYes(verdict.Verdict) {
			supported++
		}
	}
	return &Result{
		Score: float64(supported) / float64(len(statements)),
		Details: map[string]any{
			"statements": statements,
			"verdicts":   verdicts,
		},
	}, nil
}

// faithfulnessVerdict pairs a statement with the judge verdict.
type faithfulnessVerdict struct {
	Statement string `json:"statement"`
	Verdict   string `json:"verdict"`
}

// extractStatements decomposes the answer into self-contained statements.
func (e *faithfulnessEvaluator) extractStatements(ctx context.Context, question, answer string) ([]string, error) {
	prompt, err := renderPrompt(faithfulnessStatementsTemplate, struct {
		Question string
		Answer   string
	}{Question: question, Answer: answer})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Statements []string `json:"statements"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	statements := make([]string, 0, len(parsed.Statements))
	for _, statement := range parsed.Statements {
		if s := strings.TrimSpace(statement); s != "" {
			statements = append(statements, s)
		}
	}
	return statements, nil
}

// judgeStatements returns a verdict per statement against the context.
func (e *faithfulnessEvaluator) judgeStatements(ctx context.Context,
	contexts, statements []string) ([]faithfulnessVerdict, error) {
	prompt, err := renderPrompt(faithfulnessVerdictsTemplate, struct {
		Context    string
		Statements string
	}{
		Context:    strings.Join(contexts, "\n"),
		Statements: numberChunks(statements),
	})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Verdicts []faithfulnessVerdict `json:"verdicts"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Verdicts) != len(statements) {
		log.Warnf("faithfulness: expected %d verdicts, judge returned %d",
			len(statements), len(parsed.Verdicts))
	}
	// Missing verdicts count as unsupported.
	if len(parsed.Verdicts) > len(statements) {
		parsed.Verdicts = parsed.Verdicts[:len(statements)]
	}
	return parsed.Verdicts, nil
}
