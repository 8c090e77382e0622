package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ironclubfit/gymlead-ai/internal/conversation"
	"github.com/ironclubfit/gymlead-ai/internal/http/middleware"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

const defaultConversationLimit = 100

// AdminConversationsHandler exposes active conversation records to staff.
type AdminConversationsHandler struct {
	store  conversation.Store
	logger *logging.Logger
}

// NewAdminConversationsHandler creates the handler.
func NewAdminConversationsHandler(store conversation.Store, logger *logging.Logger) *AdminConversationsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminConversationsHandler{store: store, logger: logger}
}

type conversationView struct {
	SenderID    string    `json:"sender_id"`
	State       string    `json:"state"`
	Name        string    `json:"name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Goal        string    `json:"goal,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// List handles GET /admin/conversations.
// Returns 501 when the configured store backend cannot enumerate records.
func (h *AdminConversationsHandler) List(w http.ResponseWriter, r *http.Request) {
	lister, ok := h.store.(conversation.Lister)
	if !ok {
		http.Error(w, "listing not supported by store backend", http.StatusNotImplemented)
		return
	}

	limit := defaultConversationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := lister.ListActive(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]conversationView, 0, len(records))
	for _, rec := range records {
		views = append(views, conversationView{
			SenderID:    rec.SenderID,
			State:       string(rec.State),
			Name:        rec.Name,
			Phone:       rec.Phone,
			Goal:        rec.Goal,
			LastUpdated: rec.LastUpdated,
		})
	}

	if staff, ok := middleware.StaffFromContext(r.Context()); ok {
		h.logger.Info("admin listed conversations",
			"staff", staff.Subject,
			"count", len(views),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"conversations": views,
		"count":         len(views),
	})
}
