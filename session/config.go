package session

import (
	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/tool"
)

// Pipeline agent names, in acting order.
const (
	RouterAgentName   = "RouterAgent"
	PolicyAgentName   = "PolicyAgent"
	ExecutorAgentName = "ExecutorAgent"
)

// Config tunes the reply pipeline. The toolset partition is configuration
// data: Router reads, Policy decides, Executor acts. Reassigning a tool to a
// different agent requires no code change.
type Config struct {
	// MaxTurns is the number of full rounds over the agent order per reply.
	MaxTurns int

	// MaxToolRounds bounds model round trips within one agent turn.
	MaxToolRounds int

	// Toolsets maps agent name to the tool names exposed to it. The
	// reserved escalate pseudo-tool may appear here like any other name.
	Toolsets map[string][]string
}

// DefaultConfig returns the production pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxTurns:      agent.DefaultMaxTurns,
		MaxToolRounds: model.DefaultMaxToolRounds,
		Toolsets:      DefaultToolsets(),
	}
}

// DefaultToolsets returns the standard tool partition: Router gets read-only
// lookups, Policy gets knowledge retrieval plus escalate, Executor gets the
// full read/write set plus escalate.
func DefaultToolsets() map[string][]string {
	return map[string][]string{
		RouterAgentName: {
			"shopify_get_order_details",
			"shopify_get_customer_orders",
			"shopify_get_product_details",
			"skio_get_subscription_status",
		},
		PolicyAgentName: {
			"shopify_get_related_knowledge_source",
			tool.EscalateName,
		},
		ExecutorAgentName: {
			"shopify_get_order_details",
			"shopify_get_customer_orders",
			"shopify_refund_order",
			"shopify_create_store_credit",
			"shopify_cancel_order",
			"shopify_create_return",
			"shopify_create_discount_code",
			"shopify_add_tags",
			"shopify_get_product_details",
			"skio_get_subscription_status",
			"skio_pause_subscription",
			"skio_cancel_subscription",
			"shopify_get_related_knowledge_source",
			tool.EscalateName,
		},
	}
}
