// Package model defines the provider-neutral language model interface and the
// Gateway that resolves a single agent turn into zero or more tool
// invocations plus a final utterance. Concrete providers live in the openai
// and anthropic subpackages; ScriptedModel provides deterministic completions
// for tests.
package model
