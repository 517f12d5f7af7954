// Package services contains the orchestration core: ingestion,
// retrieval, context assembly, grounded answering, two-stage
// visualization and recommendations. Services depend only on the
// driven ports; adapters are injected at construction.
package services
