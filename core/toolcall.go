package core

import (
	"encoding/json"
	"sync"
)

// ToolCallRecord captures one tool invocation made during an agent turn:
// what was called, with which arguments, what came back, and which agent
// asked for it. Result holds the normalized JSON payload returned by the
// tool executor.
type ToolCallRecord struct {
	Name      string          `json:"name"`
	Arguments map[string]any  `json:"arguments"`
	Result    json.RawMessage `json:"result,omitempty"`
	Agent     string          `json:"agent,omitempty"`
}

// Collector accumulates tool call records across the agents of a single
// pipeline run, in call order. It is shared by all agents of the run and is
// safe for concurrent use, although agents act strictly sequentially.
type Collector struct {
	mu      sync.Mutex
	records []ToolCallRecord
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Append adds records to the collector preserving call order.
func (c *Collector) Append(records ...ToolCallRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []ToolCallRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ToolCallRecord, len(c.records))
	copy(out, c.records)
	return out
}
