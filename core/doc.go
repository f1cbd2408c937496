// Package core provides the foundational domain types shared across
// SupportMesh. It defines the core abstractions for:
//
//   - Messages (append-only, insertion-ordered conversation records)
//   - Agents (role-scoped units that act on the shared history)
//   - ToolCallRecords and the per-run Collector used for trace assembly
//
// The package intentionally keeps implementation concerns (model providers,
// persistence, HTTP) out of scope so that orchestration code can depend on a
// small, stable surface.
package core
