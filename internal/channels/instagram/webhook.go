package instagram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// WebhookHandler handles Meta webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onMessage   func(msg InboundMessage)
	logger      *logging.Logger
}

// NewWebhookHandler creates a new webhook handler.
// onMessage is called for each normalized inbound message, in delivery order.
// appSecret may be empty, in which case signature verification is skipped.
func NewWebhookHandler(verifyToken, appSecret string, onMessage func(InboundMessage), logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onMessage:   onMessage,
		logger:      logger,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook events (incoming messages).
// Meta requires a fast 200 regardless of what the body contains, so every
// parse failure is acknowledged and logged rather than surfaced.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("instagram: failed to read webhook body", "error", err)
		writeAck(w)
		return
	}

	if h.appSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if !VerifySignature(h.appSecret, body, signature) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	messages := h.Normalize(body)

	// Ack before fan-out so a slow handler cannot trigger Meta retries
	writeAck(w)

	for _, msg := range messages {
		if h.onMessage != nil {
			h.onMessage(msg)
		}
	}
}

func writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// Normalize extracts ordered (sender, text) pairs from a raw webhook body.
// Unrecognized or malformed entries are skipped, never fatal.
func (h *WebhookHandler) Normalize(body []byte) []InboundMessage {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Warn("instagram: unparseable webhook envelope", "error", err)
		return nil
	}

	var messages []InboundMessage
	for i, raw := range envelope.Entry {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			h.logger.Warn("instagram: skipping malformed entry", "index", i, "error", err)
			continue
		}
		messages = append(messages, normalizeEntry(entry)...)
	}

	return messages
}

// normalizeEntry flattens one entry into inbound messages, preserving order.
func normalizeEntry(entry Entry) []InboundMessage {
	var messages []InboundMessage

	for _, m := range entry.Messaging {
		if m.Sender.ID == "" || m.Message == nil || m.Message.Text == nil {
			continue
		}
		// Empty text is still a message; only the phone step rejects it
		messages = append(messages, InboundMessage{
			SenderID:  m.Sender.ID,
			Text:      *m.Message.Text,
			Timestamp: time.UnixMilli(m.Timestamp),
		})
	}

	for _, change := range entry.Changes {
		for _, m := range change.Value.Messages {
			if m.From == "" || m.Text.Body == "" {
				continue
			}
			messages = append(messages, InboundMessage{
				SenderID:  m.From,
				Text:      m.Text.Body,
				Timestamp: time.UnixMilli(entry.Time),
			})
		}
	}

	return messages
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	// Signature format: "sha256=<hex>"
	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}
