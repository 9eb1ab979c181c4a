// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the DocuHub config directory (~/.docuhub).
//
// Adapters:
//   - SettingsStore: settings in config.toml
//   - PromptStore: user-editable prompt templates
package file
