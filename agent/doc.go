// Package agent implements the role-scoped pipeline participants and the
// coordinator that runs them against a shared conversation history.
//
// Each LLM-backed agent renders the shared history into a provider message
// list from its own perspective, resolves one tool-calling turn through the
// model gateway and contributes at most one message back. The coordinator
// sequences agents in a fixed order and stops when a full round passes in
// silence or the turn budget is spent.
package agent
