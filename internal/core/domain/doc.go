// Package domain contains the core business entities and rules for
// StudyBuddy. It has no dependencies on adapters or infrastructure,
// only pure types and logic.
package domain
