// Package generation provides the boundary interface for text
// generation models. It abstracts the details of LLM API integration
// (Gemini), allowing handlers to drive extraction without coupling to a
// specific external service.
package generation
