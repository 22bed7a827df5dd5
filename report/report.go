//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package report writes metric scores as tab-separated report files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Score is one scored record.
type Score struct {
	// ID is the record identifier.
	ID string
	// Value is the metric score in [0, 1].
	Value float64
}

// Path returns the report file path for a metric under the output directory.
func Path(outputDir, metricName string) string {
	return filepath.Join(outputDir, metricName+"_report.tsv")
}

// Write writes scores for one metric to <outputDir>/<metric>_report.tsv,
// creating the directory if needed. Rows are sorted by record ID, numeric
// IDs first in numeric order, then the rest lexically.
func Write(outputDir, metricName string, scores []Score) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sortScores(sorted)

	var builder strings.Builder
	fmt.Fprintf(&builder, "#QID\t%s\n", strings.ToUpper(metricName))
	for _, score := range sorted {
		fmt.Fprintf(&builder, "%s\t%.3f\n", score.ID, score.Value)
	}

	path := Path(outputDir, metricName)
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// sortScores orders numeric IDs numerically ahead of non-numeric IDs, which
// sort lexically among themselves.
func sortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, aErr := strconv.Atoi(scores[i].ID)
		b, bErr := strconv.Atoi(scores[j].ID)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return scores[i].ID < scores[j].ID
		}
	})
}
