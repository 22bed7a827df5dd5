//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	openaiopt "github.com/openai/openai-go/option"
)

const (
	defaultChannelBufferSize = 256
)

// options contains configuration options for creating an OpenAI model.
type options struct {
	// apiKey is the OpenAI API key. Falls back to OPENAI_API_KEY when empty.
	apiKey string
	// baseURL overrides the API endpoint, for OpenAI-compatible services.
	baseURL string
	// channelBufferSize is the buffer size for response channels (default: 256).
	channelBufferSize int
	// requestOptions are extra per-client request options.
	requestOptions []openaiopt.RequestOption
}

var defaultOptions = options{
	channelBufferSize: defaultChannelBufferSize,
}

// Option is a function that configures an OpenAI model.
type Option func(*options)

// WithAPIKey sets the OpenAI API key.
// If not provided, will use OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL for the OpenAI API.
// Optional, for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithChannelBufferSize sets the channel buffer size for the OpenAI client, 256 by default.
func WithChannelBufferSize(size int) Option {
	return func(o *options) {
		if size <= 0 {
			size = defaultChannelBufferSize
		}
		o.channelBufferSize = size
	}
}

// WithRequestOptions sets additional options for the OpenAI client requests.
func WithRequestOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, opts...)
	}
}
