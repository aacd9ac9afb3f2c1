// Package googleai implements the ai interfaces using Gemini models via
// langchaingo. The embedder uses the configured embedding model and the
// chat model streams generated answers through llms.WithStreamingFunc.
package googleai
