// Package llm wraps the OpenAI-style chat completion API used for genre
// classification.
//
// The client forces JSON-only responses, retries transient failures with
// exponential backoff (honouring Retry-After), and reports token usage for
// every call so the pipeline can account cost. DecodeLLMJSON tolerates the
// usual model formatting quirks such as code fences around the payload.
package llm
