package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/core"
)

// DefaultMaxTurns bounds how many full rounds over the agent order the
// coordinator runs per customer message.
const DefaultMaxTurns = 1

// CoordinatorOptions configure a Coordinator.
type CoordinatorOptions struct {
	MaxTurns int
	Logger   zerolog.Logger
}

// Coordinator runs an ordered set of agents over a shared mutable history.
// Within a round every agent sees the messages appended by agents that acted
// before it; a round where every agent stays silent ends the run early.
type Coordinator struct {
	agents   []core.Agent
	maxTurns int
	logger   zerolog.Logger
}

// NewCoordinator creates a coordinator over the given agent order.
func NewCoordinator(agents []core.Agent, optFns ...func(o *CoordinatorOptions)) *Coordinator {
	opts := CoordinatorOptions{
		MaxTurns: DefaultMaxTurns,
		Logger:   zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns < 1 {
		opts.MaxTurns = 1
	}

	return &Coordinator{agents: agents, maxTurns: opts.MaxTurns, logger: opts.Logger}
}

// Run executes up to MaxTurns rounds starting from the given history and
// returns the final history including all appended agent messages. The input
// slice is not mutated.
func (c *Coordinator) Run(ctx context.Context, history []core.Message) ([]core.Message, error) {
	working := make([]core.Message, len(history))
	copy(working, history)

	for turn := 0; turn < c.maxTurns; turn++ {
		silent := true

		for _, a := range c.agents {
			if err := ctx.Err(); err != nil {
				return working, err
			}

			msg, err := a.Act(ctx, working)
			if err != nil {
				return working, fmt.Errorf("turn %d: %w", turn, err)
			}
			if msg == nil {
				c.logger.Debug().Str("agent", a.Name()).Int("turn", turn).Msg("coordinator.agent.silent")
				continue
			}

			working = append(working, *msg)
			silent = false

			c.logger.Debug().
				Str("agent", a.Name()).
				Int("turn", turn).
				Int("history_len", len(working)).
				Msg("coordinator.agent.spoke")
		}

		if silent {
			c.logger.Debug().Int("turn", turn).Msg("coordinator.round.silent")
			break
		}
	}

	return working, nil
}
