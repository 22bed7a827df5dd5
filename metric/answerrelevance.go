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
	"strconv"
	"strings"
	"text/template"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/internal/vector"
	"trpc.group/trpc-go/trpc-rag-eval/log"
)

var (
	// answerRelevanceQuestionsPrompt asks the judge to reverse-engineer
	// questions the answer could be answering.
	answerRelevanceQuestionsPrompt = `Given a context and an answer grounded in that context, generate {{.NumQuestions}} different questions that the answer could be answering. The questions must be fully answerable from the answer alone.

Context:
{{.Context}}

Answer: {{.Answer}}

The output should be a json alone which follows the json structure below:
{
  "questions": ["question 1", "question 2", ...]
}
`
	// answerRelevanceSimilarityPrompt scores two questions for semantic
	// equivalence when LLM similarity is enabled.
	answerRelevanceSimilarityPrompt = `Rate the semantic similarity of the two questions below on a scale from 0.0 to 1.0, where 1.0 means the questions ask for exactly the same information and 0.0 means they are unrelated.

Question A: {{.QuestionA}}
Question B: {{.QuestionB}}

The output should be a json alone which follows the json structure below:
{
  "similarity": 0.0
}
`

	answerRelevanceQuestionsTemplate = template.Must(
		template.New("answerRelevanceQuestions").Parse(answerRelevanceQuestionsPrompt))
	answerRelevanceSimilarityTemplate = template.Must(
		template.New("answerRelevanceSimilarity").Parse(answerRelevanceSimilarityPrompt))
)

// answerRelevanceEvaluator scores how directly the predicted answer
// addresses the original question.
type answerRelevanceEvaluator struct {
	opts *options
}

// newAnswerRelevance builds the answer relevance evaluator.
func newAnswerRelevance(o *options) (*answerRelevanceEvaluator, error) {
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", NameAnswerRelevance)
	}
	if !o.llmSimilarity && o.embedder == nil {
		return nil, fmt.Errorf("%s: embedder is required unless LLM similarity is enabled", NameAnswerRelevance)
	}
	return &answerRelevanceEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *answerRelevanceEvaluator) Name() string {
	return NameAnswerRelevance
}

// Description describes the metric.
func (e *answerRelevanceEvaluator) Description() string {
	return "Mean similarity between the original question and questions generated from the answer"
}

// Evaluate generates questions from the answer and scores their similarity
// to the original question.
func (e *answerRelevanceEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	questions, err := e.generateQuestions(ctx, record.ContextTexts(), record.PredictedAnswer)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if len(questions) == 0 {
		log.Debugf("answer relevance: no questions generated for record %s", record.ID)
		return &Result{Score: 0}, nil
	}
	var sum float64
	similarities := make([]float64, 0, len(questions))
	for _, question := range questions {
		var similarity float64
		if e.opts.llmSimilarity {
			similarity, err = e.judgeSimilarity(ctx, record.Query, question)
		} else {
			similarity, err = e.embeddingSimilarity(ctx, record.Query, question)
		}
		if err != nil {
			return nil, fmt.Errorf("score question similarity: %w", err)
		}
		similarities = append(similarities, similarity)
		sum += similarity
	}
	return &Result{
		Score: clamp01(sum / float64(len(questions))),
		Details: map[string]any{
			"questions":    questions,
			"similarities": similarities,
		},
	}, nil
}

// generateQuestions asks the judge for questions the answer could answer.
func (e *answerRelevanceEvaluator) generateQuestions(ctx context.Context,
	contexts []string, answer string) ([]string, error) {
	prompt, err := renderPrompt(answerRelevanceQuestionsTemplate, struct {
		NumQuestions int
		Context      string
		Answer       string
	}{
		NumQuestions: e.opts.numQuestions,
		Context:      strings.Join(contexts, "\n"),
		Answer:       answer,
	})
	if err != nil {
		return nil, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return nil, err
	}
	questions := make([]string, 0, len(parsed.Questions))
	for _, question := range parsed.Questions {
		if q := strings.TrimSpace(question); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) > e.opts.numQuestions {
		questions = questions[:e.opts.numQuestions]
	}
	return questions, nil
}

// embeddingSimilarity scores two questions with embedding cosine similarity.
func (e *answerRelevanceEvaluator) embeddingSimilarity(ctx context.Context, original, generated string) (float64, error) {
	originalVec, err := e.opts.embedder.GetEmbedding(ctx, original)
	if err != nil {
		return 0, fmt.Errorf("embed original question: %w", err)
	}
	generatedVec, err := e.opts.embedder.GetEmbedding(ctx, generated)
	if err != nil {
		return 0, fmt.Errorf("embed generated question: %w", err)
	}
	return clamp01(vector.CosineSimilarity(originalVec, generatedVec)), nil
}

// judgeSimilarity scores two questions with the judge model.
func (e *answerRelevanceEvaluator) judgeSimilarity(ctx context.Context, original, generated string) (float64, error) {
	prompt, err := renderPrompt(answerRelevanceSimilarityTemplate, struct {
		QuestionA string
		QuestionB string
	}{QuestionA: original, QuestionB: generated})
	if err != nil {
		return 0, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Similarity any `json:"similarity"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return 0, err
	}
	switch v := parsed.Similarity.(type) {
	case float64:
		return clamp01(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("parse similarity %q: %w", v, err)
		}
		return clamp01(f), nil
	default:
		return 0, fmt.Errorf("unexpected similarity type %T", parsed.Similarity)
	}
}
