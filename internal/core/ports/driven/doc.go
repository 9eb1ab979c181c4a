// Package driven holds the interfaces the core needs from the outside world.
//
// Bootstrap always supplies a DocumentStore, a SettingsStore and an
// ExtractorRegistry. LLMService, PromptStore, SeedLoader and LLMProber may be
// nil: without a model, answers and upload summaries fall back to fixed
// text, and without a prompt store the built-in prompts are used.
//
// Nothing here imports an adapter; the only internal dependency is domain.
package driven
