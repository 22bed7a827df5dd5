//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package dataset streams RAG evaluation records from JSONL files.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// maxLineSize bounds a single JSONL line; context chunks can be large.
const maxLineSize = 16 * 1024 * 1024

// Chunk is a single retrieved context chunk.
type Chunk struct {
	// ChunkID identifies the chunk within its source document.
	ChunkID string `json:"chunk_id,omitempty"`
	// ChunkText is the chunk content.
	ChunkText string `json:"chunk_text"`
}

// Record is one evaluation case: a question, the retrieved context, the
// answer produced by the RAG pipeline and the human-annotated ideal answer.
type Record struct {
	// ID identifies the record. JSON numbers and strings are both accepted.
	ID string `json:"id"`
	// Query is the user question.
	Query string `json:"query"`
	// Context is the retrieved context chunks.
	Context []Chunk `json:"context"`
	// PredictedAnswer is the answer generated by the pipeline under evaluation.
	PredictedAnswer string `json:"predicted_answer"`
	// IdealAnswer is the reference answer.
	IdealAnswer string `json:"ideal_answer"`
}

// UnmarshalJSON accepts numeric or string record IDs.
func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.ID) == 0 || string(aux.ID) == "null" {
		// Records without an ID get a generated one and bypass ID filters.
		r.ID = uuid.NewString()
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.ID, &s); err == nil {
		r.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(aux.ID, &n); err != nil {
		return fmt.Errorf("record id must be a string or number, got %s", aux.ID)
	}
	r.ID = n.String()
	return nil
}

// ContextTexts returns the chunk texts in retrieval order.
func (r *Record) ContextTexts() []string {
	texts := make([]string, 0, len(r.Context))
	for _, chunk := range r.Context {
		texts = append(texts, chunk.ChunkText)
	}
	return texts
}

// Reader streams records from a JSONL source, one line per record.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewReader creates a Reader over the given source.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Open opens the JSONL file at path for streaming.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	reader := NewReader(f)
	reader.closer = f
	return reader, nil
}

// Next returns the next record. It returns io.EOF when the source is
// exhausted. Blank lines are skipped; malformed lines are reported with
// their line number.
func (r *Reader) Next() (*Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("parse record at line %d: %w", r.line, err)
		}
		return &record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset at line %d: %w", r.line, err)
	}
	return nil, io.EOF
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
