package chat

import "github.com/leadpilot/leadpilot/internal/domain"

// MergeContext combines the session's context with a partial context from
// the backend. Shallow key-wise union, incoming keys win. Neither input
// is mutated and the result is always a fresh map, so the merge is
// associative across repeated calls.
func MergeContext(existing, incoming domain.ConversationContext) domain.ConversationContext {
	merged := make(domain.ConversationContext, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}
