//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package metric implements LLM-judged RAG evaluation metrics.
package metric

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
)

// Metric name constants.
const (
	NameFaithfulness       = "faithfulness"
	NameAnswerRelevance    = "answer_relevance"
	NameAnswerSimilarity   = "answer_similarity"
	NameAnswerCorrectness  = "answer_correctness"
	NameContextPrecision   = "context_precision"
	NameContextUtilization = "context_utilization"
	NameContextRelevance   = "context_relevance"
	NameContextRecall      = "context_recall"
)

// Evaluator computes one metric for one evaluation record.
type Evaluator interface {
	// Name returns the metric identifier.
	Name() string
	// Description describes what the metric measures.
	Description() string
	// Evaluate computes the metric score for the given record.
	Evaluate(ctx context.Context, record *dataset.Record) (*Result, error)
}

// Result is the outcome of evaluating one record.
type Result struct {
	// Score is the metric value in [0, 1].
	Score float64
	// Details carries metric-specific diagnostics, e.g. extracted
	// statements and their verdicts.
	Details map[string]any
}

// constructor builds an evaluator from shared metric options.
type constructor func(o *options) (Evaluator, error)

// registry maps metric names to evaluator constructors.
var registry = map[string]constructor{
	NameFaithfulness: func(o *options) (Evaluator, error) {
		return newFaithfulness(o)
	},
	NameAnswerRelevance: func(o *options) (Evaluator, error) {
		return newAnswerRelevance(o)
	},
	NameAnswerSimilarity: func(o *options) (Evaluator, error) {
		return newAnswerSimilarity(o)
	},
	NameAnswerCorrectness: func(o *options) (Evaluator, error) {
		return newAnswerCorrectness(o)
	},
	NameContextPrecision: func(o *options) (Evaluator, error) {
		return newContextPrecision(o, false)
	},
	NameContextUtilization: func(o *options) (Evaluator, error) {
		return newContextPrecision(o, true)
	},
	NameContextRelevance: func(o *options) (Evaluator, error) {
		return newContextRelevance(o)
	},
	NameContextRecall: func(o *options) (Evaluator, error) {
		return newContextRecall(o)
	},
}

// Names returns the sorted list of registered metric names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the evaluator for the given metric name.
func New(name string, opts ...Option) (Evaluator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported metric %q, valid metrics: %s",
			name, strings.Join(Names(), ", "))
	}
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return ctor(&o)
}
