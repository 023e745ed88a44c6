// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LLMService: Chat completion against a local or cloud model
//   - PromptStore: User-editable prompt templates
//   - ConfigStore: Application configuration
//   - Console: Output sink and interactive input for the session
//   - Opener: Platform "open with default application" mechanism
//   - TextDecoder: Byte-to-text decoding with fallback code pages
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
