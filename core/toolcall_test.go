package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_AppendAndRecords(t *testing.T) {
	c := NewCollector()
	c.Append(ToolCallRecord{Name: "a", Agent: "RouterAgent"})
	c.Append(ToolCallRecord{Name: "b", Agent: "ExecutorAgent"})

	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b", records[1].Name)

	// Records returns a copy; mutating it must not affect the collector.
	records[0].Name = "mutated"
	assert.Equal(t, "a", c.Records()[0].Name)
}

func TestCollector_ConcurrentAppend(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(ToolCallRecord{Name: "x"})
		}()
	}
	wg.Wait()

	assert.Len(t, c.Records(), 50)
}
