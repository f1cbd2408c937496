package tool

import "context"

// Skio subscription tool constructors.

// NewSkioGetSubscriptionStatus looks up a customer's subscription status by
// email.
func NewSkioGetSubscriptionStatus(client *Client) *FunctionTool {
	return NewFunctionTool(
		"skio_get_subscription_status",
		"Get subscription status for a customer by email.",
		map[string]any{
			"type":     "object",
			"required": []string{"email"},
			"properties": map[string]any{
				"email": map[string]any{"type": "string"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/skio/get_subscription_status", args), nil
		},
	)
}

// NewSkioPauseSubscription pauses an active subscription.
func NewSkioPauseSubscription(client *Client) *FunctionTool {
	return NewFunctionTool(
		"skio_pause_subscription",
		"Pause a Skio subscription until a date.",
		map[string]any{
			"type":     "object",
			"required": []string{"subscriptionId", "pausedUntil"},
			"properties": map[string]any{
				"subscriptionId": map[string]any{"type": "string"},
				"pausedUntil":    map[string]any{"type": "string", "description": "Format YYYY-MM-DD"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/skio/pause_subscription", args), nil
		},
	)
}

// NewSkioCancelSubscription cancels a subscription.
func NewSkioCancelSubscription(client *Client) *FunctionTool {
	return NewFunctionTool(
		"skio_cancel_subscription",
		"Cancel a Skio subscription.",
		map[string]any{
			"type":     "object",
			"required": []string{"subscriptionId", "cancellationReasons"},
			"properties": map[string]any{
				"subscriptionId":      map[string]any{"type": "string"},
				"cancellationReasons": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/skio/cancel_subscription", args), nil
		},
	)
}
