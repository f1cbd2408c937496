package session

import (
	"fmt"

	"github.com/hupe1980/supportmesh/store"
)

// teamPrompt frames the whole round; individual agents never see it (each
// injects its own system prompt) but deterministic stand-ins might.
const teamPrompt = "You are a team of agents collaborating to assist the user."

// Customer-facing fixed responses.
const (
	escalationAck = "Thank you for reaching out. We've escalated your request to our team. " +
		"A team member will follow up with you shortly."

	genericApology = "I apologize, I couldn't process that. Please try again."
)

func customerContext(sess *store.Session) string {
	return fmt.Sprintf("Customer: %s <%s>, Shopify customer ID: %s.",
		sess.CustomerName(), sess.CustomerEmail, sess.ShopifyCustomerID)
}

func routerPrompt(sess *store.Session) string {
	return fmt.Sprintf(
		"You are the Router agent for email support. %s "+
			"Your job: classify the request and gather context. Use tools to look up orders or subscriptions. "+
			"Output a short classification: e.g. SHIPPING_DELAY, REFUND_REQUEST, SUBSCRIPTION, WRONG_ITEM, PRODUCT_ISSUE, etc. "+
			"Summarize what you found and what workflow applies. Pass this to Policy.",
		customerContext(sess))
}

func policyPrompt(sess *store.Session) string {
	return fmt.Sprintf(
		"You are the Policy agent. %s "+
			"You receive Router's classification. Check workflow rules using shopify_get_related_knowledge_source. "+
			"If we cannot safely proceed or policy requires human review, call the escalate tool. "+
			"Otherwise output: PROCEED with a brief note for the Executor.",
		customerContext(sess))
}

func executorPrompt(sess *store.Session) string {
	return fmt.Sprintf(
		"You are the Executor agent. %s "+
			"You receive Router's analysis and Policy's decision. Execute the appropriate actions using tools: "+
			"refunds, store credit, subscription pause/cancel, order lookup, etc. "+
			"Produce the final customer-facing reply: helpful, concise, professional. "+
			"If Policy escalated, do not execute - acknowledge escalation only.",
		customerContext(sess))
}
