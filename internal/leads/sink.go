package leads

import "context"

// Sink appends a completed lead to durable external storage. The outcome is
// an explicit error; callers decide what a failure means for the conversation.
type Sink interface {
	Append(ctx context.Context, lead Lead) error
}
