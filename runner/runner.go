//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package runner drives metric evaluation over a dataset.
package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/log"
	"trpc.group/trpc-go/trpc-rag-eval/metric"
	"trpc.group/trpc-go/trpc-rag-eval/report"
)

// DefaultConcurrency is the number of records evaluated in parallel.
const DefaultConcurrency = 1

// options contains runner configuration.
type options struct {
	concurrency int
	filter      *dataset.Filter
}

var defaultOptions = options{
	concurrency: DefaultConcurrency,
}

// Option configures the runner.
type Option func(*options)

// WithConcurrency sets how many records are evaluated in parallel.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithFilter restricts which record IDs are evaluated.
func WithFilter(f *dataset.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// Runner evaluates every allowed dataset record with one metric evaluator.
type Runner struct {
	opts options
}

// New creates a runner.
func New(opts ...Option) *Runner {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{opts: o}
}

// Run reads records until EOF and evaluates each with the evaluator.
// Per-record failures are logged and collected but do not stop the run;
// the scores of the records that succeeded are always returned.
func (r *Runner) Run(ctx context.Context, evaluator metric.Evaluator,
	reader *dataset.Reader) ([]report.Score, error) {
	pool, err := ants.NewPool(r.opts.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		scores []report.Score
		errs   *multierror.Error
	)
	collect := func(score *report.Score, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = multierror.Append(errs, err)
			return
		}
		scores = append(scores, *score)
	}

	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			wg.Wait()
			return scores, multierror.Append(errs,
				fmt.Errorf("read dataset: %w", err)).ErrorOrNil()
		}
		if r.opts.filter != nil && !r.opts.filter.Allow(record.ID) {
			log.Debugf("skipping query (%s)", record.ID)
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			collect(r.evaluate(ctx, evaluator, record))
		}); err != nil {
			wg.Done()
			wg.Wait()
			return scores, multierror.Append(errs,
				fmt.Errorf("submit record %s: %w", record.ID, err)).ErrorOrNil()
		}
	}
	wg.Wait()
	return scores, errs.ErrorOrNil()
}

// evaluate scores one record and logs the outcome.
func (r *Runner) evaluate(ctx context.Context, evaluator metric.Evaluator,
	record *dataset.Record) (*report.Score, error) {
	result, err := evaluator.Evaluate(ctx, record)
	if err != nil {
		log.Errorf("query (%s): %s, %s failed: %v",
			record.ID, record.Query, evaluator.Name(), err)
		return nil, fmt.Errorf("record %s: %w", record.ID, err)
	}
	log.Infof("query (%s): %s, %s: %.3f",
		record.ID, record.Query, evaluator.Name(), result.Score)
	return &report.Score{ID: record.ID, Value: result.Score}, nil
}
