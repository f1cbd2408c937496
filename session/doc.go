// Package session orchestrates email support conversations. A session owns
// one customer's conversation: it persists every inbound message before any
// model work, runs the Router -> Policy -> Executor agent round over the
// shared history, intercepts escalation as a terminal state change and
// assembles the observable trace of each reply.
package session
