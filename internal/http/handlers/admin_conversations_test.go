package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ironclubfit/gymlead-ai/internal/conversation"
)

// records-only store without ListActive support
type flatStore struct{}

func (flatStore) Get(ctx context.Context, senderID string) (*conversation.Record, error) {
	return nil, nil
}
func (flatStore) Upsert(ctx context.Context, senderID string, fields conversation.Fields) error {
	return nil
}
func (flatStore) Delete(ctx context.Context, senderID string) error { return nil }

func TestAdminConversationsList(t *testing.T) {
	store := conversation.NewInMemoryStore()
	ctx := context.Background()

	seedState := conversation.StateAskPhone
	name := "Jane Doe"
	if err := store.Upsert(ctx, "u1", conversation.Fields{State: &seedState, Name: &name}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewAdminConversationsHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Conversations []conversationView `json:"conversations"`
		Count         int                `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Conversations[0].SenderID != "u1" || resp.Conversations[0].State != "ASK_PHONE" {
		t.Fatalf("conversation = %+v", resp.Conversations[0])
	}
}

func TestAdminConversationsListLimit(t *testing.T) {
	store := conversation.NewInMemoryStore()
	ctx := context.Background()

	state := conversation.StateAskName
	for _, id := range []string{"a", "b", "c"} {
		_ = store.Upsert(ctx, id, conversation.Fields{State: &state})
	}

	h := NewAdminConversationsHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations?limit=2", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
}

func TestAdminConversationsListUnsupportedBackend(t *testing.T) {
	h := NewAdminConversationsHandler(flatStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", w.Code)
	}
}
