//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Command ragmetrics evaluates RAG pipeline output with LLM-judged metrics.
//
// Usage:
//
//	ragmetrics -metric faithfulness -input data.jsonl -output reports/
//
// API keys are read from the environment: GOOGLE_API_KEY or GEMINI_API_KEY
// for the gemini provider, OPENAI_API_KEY for the openai provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/embedder"
	geminiembedder "trpc.group/trpc-go/trpc-rag-eval/embedder/gemini"
	openaiembedder "trpc.group/trpc-go/trpc-rag-eval/embedder/openai"
	"trpc.group/trpc-go/trpc-rag-eval/log"
	"trpc.group/trpc-go/trpc-rag-eval/metric"
	"trpc.group/trpc-go/trpc-rag-eval/model"
	geminimodel "trpc.group/trpc-go/trpc-rag-eval/model/gemini"
	openaimodel "trpc.group/trpc-go/trpc-rag-eval/model/openai"
	"trpc.group/trpc-go/trpc-rag-eval/report"
	"trpc.group/trpc-go/trpc-rag-eval/runner"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"

	defaultGeminiModel = "gemini-2.0-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

var (
	metricName     = flag.String("metric", "", "Metric to compute: "+strings.Join(metric.Names(), ", "))
	inputPath      = flag.String("input", "", "Path to the JSONL evaluation dataset")
	outputDir      = flag.String("output", "", "Directory the TSV report is written to")
	provider       = flag.String("provider", providerGemini, "Model provider: gemini or openai")
	modelName      = flag.String("model", "", "Judge model name (provider default when empty)")
	embeddingModel = flag.String("embedding-model", "", "Embedding model name (provider default when empty)")
	modelTemp      = flag.Float64("model-temp", 0.0, "Judge temperature, reset to 0.0 when outside [0, 1]")
	qsToSkip       = flag.String("qs-to-skip", "", "Comma-separated record IDs to skip")
	qsToUse        = flag.String("qs-to-use", "", "Comma-separated record IDs exempt from -qs-to-skip")
	crossEncoder   = flag.Bool("cross-encoder", true, "Score answer relevance with the judge model instead of embeddings")
	concurrency    = flag.Int("concurrency", runner.DefaultConcurrency, "Records evaluated in parallel")
	debug          = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	if *debug {
		log.SetLevel("debug")
	}
	if err := run(context.Background()); err != nil {
		log.Fatalf("ragmetrics: %v", err)
	}
}

func run(ctx context.Context) error {
	if *metricName == "" || *inputPath == "" || *outputDir == "" {
		flag.Usage()
		return fmt.Errorf("-metric, -input and -output are required")
	}

	judgeModel, textEmbedder, err := buildProvider(ctx)
	if err != nil {
		return err
	}
	temperature := *modelTemp
	if temperature < 0 || temperature > 1 {
		log.Warnf("model temperature %v outside [0, 1], using 0.0", temperature)
		temperature = 0.0
	}
	generation := metric.DefaultGeneration
	generation.Temperature = &temperature

	evaluator, err := metric.New(*metricName,
		metric.WithJudgeModel(judgeModel),
		metric.WithEmbedder(textEmbedder),
		metric.WithGenerationConfig(generation),
		metric.WithLLMSimilarity(*crossEncoder),
	)
	if err != nil {
		return err
	}

	filter, err := dataset.NewFilter(*qsToSkip, *qsToUse)
	if err != nil {
		return fmt.Errorf("parse record filters: %w", err)
	}
	reader, err := dataset.Open(*inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	scores, runErr := runner.New(
		runner.WithConcurrency(*concurrency),
		runner.WithFilter(filter),
	).Run(ctx, evaluator, reader)
	if runErr != nil {
		log.Errorf("evaluation finished with errors: %v", runErr)
	}

	path, err := report.Write(*outputDir, evaluator.Name(), scores)
	if err != nil {
		return err
	}
	log.Infof("wrote %d %s scores to %s", len(scores), evaluator.Name(), path)
	return nil
}

// buildProvider creates the judge model and embedder for the selected
// provider.
func buildProvider(ctx context.Context) (model.Model, embedder.Embedder, error) {
	switch *provider {
	case providerGemini:
		name := *modelName
		if name == "" {
			name = defaultGeminiModel
		}
		judgeModel, err := geminimodel.New(ctx, name)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini model: %w", err)
		}
		var embedderOpts []geminiembedder.Option
		if *embeddingModel != "" {
			embedderOpts = append(embedderOpts, geminiembedder.WithModel(*embeddingModel))
		}
		textEmbedder, err := geminiembedder.New(ctx, embedderOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini embedder: %w", err)
		}
		return judgeModel, textEmbedder, nil
	case providerOpenAI:
		name := *modelName
		if name == "" {
			name = defaultOpenAIModel
		}
		var embedderOpts []openaiembedder.Option
		if *embeddingModel != "" {
			embedderOpts = append(embedderOpts, openaiembedder.WithModel(*embeddingModel))
		}
		return openaimodel.New(name), openaiembedder.New(embedderOpts...), nil
	default:
		return nil, nil, fmt.Errorf("unsupported provider %q, valid providers: %s, %s",
			*provider, providerGemini, providerOpenAI)
	}
}
