package tool

// RegisterCatalog registers the full commerce tool catalog against the
// backend client. Returns the registry for chaining.
func RegisterCatalog(registry *Registry, client *Client) *Registry {
	registry.Register(
		NewShopifyGetOrderDetails(client),
		NewShopifyGetCustomerOrders(client),
		NewShopifyRefundOrder(client),
		NewShopifyCreateStoreCredit(client),
		NewShopifyGetRelatedKnowledgeSource(client),
		NewShopifyCancelOrder(client),
		NewShopifyCreateReturn(client),
		NewShopifyCreateDiscountCode(client),
		NewShopifyAddTags(client),
		NewShopifyGetProductDetails(client),
		NewSkioGetSubscriptionStatus(client),
		NewSkioPauseSubscription(client),
		NewSkioCancelSubscription(client),
	)
	return registry
}
