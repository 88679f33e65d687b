// Package settings resolves kernagent runtime settings for an
// OpenAI-compatible endpoint. Values come from an explicit environment
// snapshot, with an optional dotenv config file merged beneath it, and fall
// back to fixed defaults. The environment always wins over the file.
package settings
