// Package llm provides suggestion sources for email labeling. A source turns
// a prompt built from one email into free text; the caller maps that text
// back onto a fixed category set with ExtractCategory.
//
// Sources include a local Ollama server (HTTP or the ollama CLI) and any
// OpenAI-compatible chat endpoint. Every networked source is wrapped in
// Guarded, which adds a per-call timeout, rate limiting, a circuit breaker
// and a response cache. Failures surface as ErrUnavailable and are never
// retried.
package llm
