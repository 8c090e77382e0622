package instagram

import (
	"context"
	"net/http"

	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// Adapter is the Instagram DM channel adapter. It normalizes inbound webhooks
// from Meta and sends outbound messages via the Graph API.
type Adapter struct {
	client  *Client
	webhook *WebhookHandler
	logger  *logging.Logger
}

// AdapterConfig holds the Meta credentials for the channel.
type AdapterConfig struct {
	PageAccessToken string
	AppSecret       string
	VerifyToken     string
}

// NewAdapter creates a new Instagram DM adapter. onMessage receives each
// normalized inbound message.
func NewAdapter(cfg AdapterConfig, onMessage func(InboundMessage), logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		client:  NewClient(cfg.PageAccessToken),
		webhook: NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, onMessage, logger),
		logger:  logger,
	}
}

// HandleVerification handles GET /webhook (Meta challenge).
func (a *Adapter) HandleVerification(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleVerification(w, r)
}

// HandleWebhook handles POST /webhook (inbound messages).
func (a *Adapter) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleInbound(w, r)
}

// SendMessage sends a text DM to the given user. Failures are logged and
// returned; callers decide whether they matter.
func (a *Adapter) SendMessage(ctx context.Context, recipientID, text string) error {
	_, err := a.client.SendTextMessage(ctx, recipientID, text)
	if err != nil {
		a.logger.Error("instagram: failed to send message",
			"recipient_id", recipientID,
			"error", err,
		)
	}
	return err
}
