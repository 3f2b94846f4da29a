// Package session manages the provider-side conversation handle for the
// assistant.
//
// The provider keeps multi-turn memory inside a chat handle, so the handle
// must be reused across turns with identical configuration and recreated
// the moment the configuration changes. The Manager keys the cached handle
// by a fingerprint derived from the model name, whether a caller location
// is attached, and the tool-set identifier. Replacing the handle
// intentionally drops the provider-side memory (e.g. when the user toggles
// location on or off), and Invalidate lets callers force a fresh session
// after a provider error.
//
// At most one handle is cached at a time; it is never shared across
// fingerprints.
package session
