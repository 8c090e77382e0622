package conversation

import "context"

// Store persists one conversation record per sender.
//
// Upsert creates the record when absent (unset fields empty, timestamp set)
// and otherwise applies only the set fields, refreshing last_updated. The
// engine serializes get-modify-upsert sequences per sender, so implementations
// only need to be safe for concurrent use across senders.
type Store interface {
	// Get returns the record for the sender, or nil when no conversation is active.
	Get(ctx context.Context, senderID string) (*Record, error)

	// Upsert applies a partial-field update, creating the record if needed.
	Upsert(ctx context.Context, senderID string, fields Fields) error

	// Delete removes the record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, senderID string) error
}

// Lister is implemented by stores that can enumerate active conversations.
// Only the admin surface uses it; the flow itself never queries beyond Get.
type Lister interface {
	ListActive(ctx context.Context, limit int) ([]Record, error)
}
