package tool

import (
	"context"
	"errors"
)

// Shopify tool constructors. Each tool forwards its validated argument
// mapping to the commerce backend over the normalized POST contract.

// NewShopifyGetOrderDetails fetches detailed information for a single order.
func NewShopifyGetOrderDetails(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_get_order_details",
		"Fetch detailed information for a single order by ID. Use order number like #1234.",
		map[string]any{
			"type":     "object",
			"required": []string{"orderId"},
			"properties": map[string]any{
				"orderId": map[string]any{"type": "string", "description": "Order identifier, e.g. #1234"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/get_order_details", args), nil
		},
	)
}

// NewShopifyGetCustomerOrders lists a customer's orders with cursor
// pagination. The "null" string sentinel selects the first page; a missing
// or explicit null cursor is normalized to it.
func NewShopifyGetCustomerOrders(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_get_customer_orders",
		"Get customer orders by email. Use 'null' for after on first page.",
		map[string]any{
			"type":     "object",
			"required": []string{"email", "after", "limit"},
			"properties": map[string]any{
				"email": map[string]any{"type": "string"},
				"after": map[string]any{"type": []string{"string", "null"}, "description": "Cursor, use 'null' for first page"},
				"limit": map[string]any{"type": "integer", "description": "Max 250"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			if after, ok := args["after"]; !ok || after == nil || after == "null" {
				args["after"] = "null"
			}
			return client.PostJSON(ctx, "/shopify/get_customer_orders", args), nil
		},
	)
}

// NewShopifyRefundOrder refunds an order to the original payment methods or
// as store credit.
func NewShopifyRefundOrder(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_refund_order",
		"Refund an order. orderId is the full GID.",
		map[string]any{
			"type":     "object",
			"required": []string{"orderId", "refundMethod"},
			"properties": map[string]any{
				"orderId": map[string]any{"type": "string"},
				"refundMethod": map[string]any{
					"type": "string",
					"enum": []string{"ORIGINAL_PAYMENT_METHODS", "STORE_CREDIT"},
				},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/refund_order", args), nil
		},
	)
}

// NewShopifyCreateStoreCredit credits store credit to a customer.
func NewShopifyCreateStoreCredit(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_create_store_credit",
		"Credit store credit to a customer.",
		map[string]any{
			"type":     "object",
			"required": []string{"id", "creditAmount", "expiresAt"},
			"properties": map[string]any{
				"id": map[string]any{"type": "string", "description": "Customer GID"},
				"creditAmount": map[string]any{
					"type":     "object",
					"required": []string{"amount", "currencyCode"},
					"properties": map[string]any{
						"amount":       map[string]any{"type": "string"},
						"currencyCode": map[string]any{"type": "string"},
					},
				},
				"expiresAt": map[string]any{"type": []string{"string", "null"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/create_store_credit", args), nil
		},
	)
}

// NewShopifyGetRelatedKnowledgeSource retrieves FAQs, PDFs and articles
// related to a question.
func NewShopifyGetRelatedKnowledgeSource(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_get_related_knowledge_source",
		"Retrieve FAQs, PDFs, blog articles about a question. Use null for productId if not product-specific.",
		map[string]any{
			"type":     "object",
			"required": []string{"question", "specificToProductId"},
			"properties": map[string]any{
				"question":            map[string]any{"type": "string"},
				"specificToProductId": map[string]any{"type": []string{"string", "null"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/get_related_knowledge_source", args), nil
		},
	)
}

// NewShopifyCancelOrder cancels an order with a reason and refund mode.
func NewShopifyCancelOrder(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_cancel_order",
		"Cancel an order based on order ID and reason.",
		map[string]any{
			"type":     "object",
			"required": []string{"orderId", "reason", "notifyCustomer", "restock", "staffNote", "refundMode"},
			"properties": map[string]any{
				"orderId":        map[string]any{"type": "string"},
				"reason":         map[string]any{"type": "string"},
				"notifyCustomer": map[string]any{"type": "boolean"},
				"restock":        map[string]any{"type": "boolean"},
				"staffNote":      map[string]any{"type": "string"},
				"refundMode":     map[string]any{"type": "string"},
				"storeCredit":    map[string]any{"type": []string{"object", "null"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/cancel_order", args), nil
		},
	)
}

// NewShopifyCreateReturn creates a return for a given order.
func NewShopifyCreateReturn(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_create_return",
		"Create a return for a given order.",
		map[string]any{
			"type":     "object",
			"required": []string{"orderId"},
			"properties": map[string]any{
				"orderId": map[string]any{"type": "string"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/create_return", args), nil
		},
	)
}

// NewShopifyCreateDiscountCode creates a discount code for the customer.
func NewShopifyCreateDiscountCode(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_create_discount_code",
		"Create a discount code for the customer.",
		map[string]any{
			"type":     "object",
			"required": []string{"type", "value", "duration", "productIds"},
			"properties": map[string]any{
				"type":       map[string]any{"type": "string", "description": "percentage or fixed_amount"},
				"value":      map[string]any{"type": "number"},
				"duration":   map[string]any{"type": "integer", "description": "Validity in days"},
				"productIds": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/create_discount_code", args), nil
		},
	)
}

// NewShopifyAddTags adds tags to a Shopify resource (order, customer,
// product).
func NewShopifyAddTags(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_add_tags",
		"Add tags to a Shopify resource.",
		map[string]any{
			"type":     "object",
			"required": []string{"id", "tags"},
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "description": "Shopify resource GID"},
				"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			if tags, ok := args["tags"].([]any); ok && len(tags) == 0 {
				return nil, errors.New("at least one tag is required")
			}
			return client.PostJSON(ctx, "/shopify/add_tags", args), nil
		},
	)
}

// NewShopifyGetProductDetails retrieves product information by ID, name or
// key feature.
func NewShopifyGetProductDetails(client *Client) *FunctionTool {
	return NewFunctionTool(
		"shopify_get_product_details",
		"Retrieve product information by product ID, name, or key feature.",
		map[string]any{
			"type":     "object",
			"required": []string{"query"},
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return client.PostJSON(ctx, "/shopify/get_product_details", args), nil
		},
	)
}
