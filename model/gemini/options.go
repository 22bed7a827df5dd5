//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"google.golang.org/genai"
)

const (
	defaultChannelBufferSize = 256
)

// DefaultSafetySettings block only high-risk content in the four standard harm
// categories, matching the judge configuration the evaluation pipeline was
// tuned with.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
}

// options contains configuration options for creating a Gemini model.
type options struct {
	// channelBufferSize is the buffer size for response channels (default: 256).
	channelBufferSize int
	// geminiClientConfig for building the gemini client.
	geminiClientConfig *genai.ClientConfig
	// safetySettings applied to every generation request.
	safetySettings []*genai.SafetySetting
}

var defaultOptions = options{
	channelBufferSize: defaultChannelBufferSize,
	safetySettings:    DefaultSafetySettings,
}

// Option is a function that configures a Gemini model.
type Option func(*options)

// WithChannelBufferSize sets the channel buffer size for the Gemini client, 256 by default.
func WithChannelBufferSize(size int) Option {
	return func(o *options) {
		if size <= 0 {
			size = defaultChannelBufferSize
		}
		o.channelBufferSize = size
	}
}

// WithClientConfig sets the genai client config.
// If not provided, the client reads GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func WithClientConfig(config *genai.ClientConfig) Option {
	return func(o *options) {
		o.geminiClientConfig = config
	}
}

// WithAPIKey sets the Gemini API key.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		if o.geminiClientConfig == nil {
			o.geminiClientConfig = &genai.ClientConfig{}
		}
		o.geminiClientConfig.APIKey = apiKey
	}
}

// WithSafetySettings overrides the default safety settings.
func WithSafetySettings(settings []*genai.SafetySetting) Option {
	return func(o *options) {
		o.safetySettings = settings
	}
}
