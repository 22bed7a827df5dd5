//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//

package senttokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	sentences, err := Tokenize("Water boils at 100 degrees Celsius. The sky is blue.")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Water boils at 100 degrees Celsius.",
		"The sky is blue.",
	}, sentences)
}

func TestTokenizeAbbreviations(t *testing.T) {
	sentences, err := Tokenize("Dr. Smith works at Acme Inc. in Boston. She leads research.")
	require.NoError(t, err)
	assert.Len(t, sentences, 2)
}

func TestTokenizeEmpty(t *testing.T) {
	sentences, err := Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, sentences)

	sentences, err = Tokenize("   \n\t ")
	require.NoError(t, err)
	assert.Empty(t, sentences)
}
