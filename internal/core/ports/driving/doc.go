// Package driving provides interfaces for primary/inbound ports: the
// operations StudyBuddy exposes to its callers (CLI, HTTP layer or
// tests).
package driving
