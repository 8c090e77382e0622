package instagram

import (
	"encoding/json"
	"time"
)

// Envelope is the top-level structure received from Meta's webhook.
// Entries are kept raw so one malformed entry cannot poison the rest.
type Envelope struct {
	Object string            `json:"object"`
	Entry  []json.RawMessage `json:"entry"`
}

// Entry is a single webhook entry. Meta delivers messaging-style entries
// (Messenger/Instagram DM) and changes-style entries (Instagram business /
// WhatsApp Cloud API); a given entry carries one or the other.
type Entry struct {
	ID        string      `json:"id"`
	Time      int64       `json:"time"`
	Messaging []Messaging `json:"messaging"`
	Changes   []Change    `json:"changes"`
}

// Messaging represents a single messaging event.
type Messaging struct {
	Sender    Sender    `json:"sender"`
	Recipient Recipient `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
}

// Sender identifies who sent the message.
type Sender struct {
	ID string `json:"id"`
}

// Recipient identifies the recipient.
type Recipient struct {
	ID string `json:"id"`
}

// Message contains the message content. Text is a pointer so an
// attachment-only event (no text key) is distinguishable from an empty text,
// which is a real message the flow must still advance on.
type Message struct {
	MID  string  `json:"mid"`
	Text *string `json:"text"`
}

// Change wraps the "changes" entry variant.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the messages delivered under a change.
type ChangeValue struct {
	Messages []ChangeMessage `json:"messages"`
}

// ChangeMessage is one inbound message in a changes-style entry.
type ChangeMessage struct {
	From string     `json:"from"`
	Text ChangeText `json:"text"`
}

// ChangeText is either a plain JSON string or an object with a "body" field.
// Anything else decodes to the empty string.
type ChangeText struct {
	Body string
}

// UnmarshalJSON accepts both observed text encodings.
func (t *ChangeText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		t.Body = plain
		return nil
	}

	var obj struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		t.Body = obj.Body
		return nil
	}

	t.Body = ""
	return nil
}

// SendRequest is the payload sent to the Graph API to send a message.
type SendRequest struct {
	Recipient SendRecipient `json:"recipient"`
	Message   SendMessage   `json:"message"`
}

// SendRecipient identifies who to send the message to.
type SendRecipient struct {
	ID string `json:"id"`
}

// SendMessage is the message content for outbound messages.
type SendMessage struct {
	Text string `json:"text"`
}

// SendResponse is the response from the Graph API after sending a message.
type SendResponse struct {
	RecipientID string     `json:"recipient_id"`
	MessageID   string     `json:"message_id"`
	Error       *SendError `json:"error,omitempty"`
}

// SendError represents an error returned by the Graph API.
type SendError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

// InboundMessage is the normalized (sender, text) pair extracted from a
// webhook envelope, in original delivery order.
type InboundMessage struct {
	SenderID  string
	Text      string
	Timestamp time.Time
}
