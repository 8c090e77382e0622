package notify

import (
	"context"
	"fmt"

	"github.com/ironclubfit/gymlead-ai/internal/leads"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// Service tells gym staff about captured leads. All failures are logged and
// swallowed; notification is best-effort and never affects the conversation.
type Service struct {
	email     EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service. Returns nil when there is no
// sender or no recipient, so callers can hold a nil *Service safely.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if email == nil || recipient == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, recipient: recipient, logger: logger}
}

// LeadCaptured emails the lead summary to the configured staff address.
func (s *Service) LeadCaptured(ctx context.Context, lead leads.Lead) {
	if s == nil {
		return
	}

	body := fmt.Sprintf(
		"New trial lead captured.\n\nName: %s\nPhone: %s\nGoal: %s\nNotes: %s\nSender: %s\nCaptured: %s\n",
		lead.Name, lead.Phone, lead.Goal, lead.Notes, lead.SenderID,
		lead.Timestamp.UTC().Format("2006-01-02 15:04:05"),
	)
	msg := EmailMessage{
		To:      s.recipient,
		Subject: fmt.Sprintf("New gym lead: %s", lead.Name),
		Body:    body,
	}

	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("lead notification failed", "error", err, "sender_id", lead.SenderID)
	}
}
