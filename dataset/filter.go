//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter selects records by integer ID. An empty filter allows everything.
// A record is skipped only when it is in the skip set and not in the use
// set; records with non-integer IDs are always allowed.
type Filter struct {
	skip map[int]bool
	use  map[int]bool
}

// NewFilter builds a Filter from comma-separated integer ID lists, e.g.
// "3,4,11". Either list may be empty.
func NewFilter(skipList, useList string) (*Filter, error) {
	skip, err := parseIDList(skipList)
	if err != nil {
		return nil, fmt.Errorf("parse skip list: %w", err)
	}
	use, err := parseIDList(useList)
	if err != nil {
		return nil, fmt.Errorf("parse use list: %w", err)
	}
	return &Filter{skip: skip, use: use}, nil
}

// Allow reports whether the record with the given ID should be evaluated.
func (f *Filter) Allow(id string) bool {
	if f == nil {
		return true
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return true
	}
	return !(f.skip[n] && !f.use[n])
}

// parseIDList parses a comma-separated list of integers into a set.
func parseIDList(list string) (map[int]bool, error) {
	ids := make(map[int]bool)
	if strings.TrimSpace(list) == "" {
		return ids, nil
	}
	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids[n] = true
	}
	return ids, nil
}
