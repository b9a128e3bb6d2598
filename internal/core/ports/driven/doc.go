// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: In-memory document and chunk ownership
//   - Extractor: Raw upload bytes to plain text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, retrieval
//     uses lexical matching only.
//   - VectorIndex: Vector storage/search. Only enabled together with
//     EmbeddingService.
//   - LLMService: Answer synthesis. Without it, answers degrade to
//     deterministic concatenation.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
