// Package model defines the normalized backend capability the assistant
// depends on (text generation with optional tool calling plus structured
// object generation) together with provider-neutral request/response types.
// Concrete adapters live in the openai and anthropic subpackages; MockModel
// provides scripted behavior for tests and examples.
package model
