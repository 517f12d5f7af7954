// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): model providers, the vector index,
// metadata storage and text extraction.
package driven
