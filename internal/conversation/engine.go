package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ironclubfit/gymlead-ai/internal/leads"
	"github.com/ironclubfit/gymlead-ai/internal/observability/metrics"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// Intake script. The copy is user-facing; the states drive the flow.
const (
	promptAskName    = "Hey 👋 — I can help book a free trial. What's your full name?"
	promptPhoneShort = "That phone number looks short. Please enter your phone number including country or area code."
	promptAskGoal    = "Got it. What's your fitness goal? (e.g., build muscle, lose fat, general fitness)"
	promptAskNotes   = "Any other details we should know? (injuries, preferred workout time, trainer preference). If none, reply 'no'."
	promptThanks     = "Thanks — we saved your details. A staff member will contact you shortly. 🙌"
	promptSinkFailed = "Thanks — we saved your details locally but failed to save to Google Sheets. I'll try again."
	promptFallback   = "Sorry, I didn't understand that. Reply 'start' to begin booking or ask for help."
)

const minPhoneDigits = 7

// Sender delivers an outbound text to a sender. Failures are logged by the
// channel adapter; the engine never treats them as fatal.
type Sender interface {
	SendMessage(ctx context.Context, recipientID, text string) error
}

// Notifier is told about captured leads. Implementations must not block the
// flow on failure.
type Notifier interface {
	LeadCaptured(ctx context.Context, lead leads.Lead)
}

// Engine advances per-sender conversations through the intake script and
// submits completed leads to the sink.
type Engine struct {
	store    Store
	sender   Sender
	sink     leads.Sink
	notifier Notifier
	metrics  *metrics.FlowMetrics
	locks    *keyLock
	logger   *logging.Logger

	// KeepLeadOnFailure preserves the conversation record when the sink
	// rejects a lead, so the next inbound message retries the terminal step.
	// The default (false) matches the source behavior: notify and drop.
	keepLeadOnFailure bool

	now func() time.Time
}

// EngineConfig wires the engine's collaborators.
type EngineConfig struct {
	Store             Store
	Sender            Sender
	Sink              leads.Sink
	Notifier          Notifier
	Metrics           *metrics.FlowMetrics
	Logger            *logging.Logger
	KeepLeadOnFailure bool
}

// NewEngine creates a conversation engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:             cfg.Store,
		sender:            cfg.Sender,
		sink:              cfg.Sink,
		notifier:          cfg.Notifier,
		metrics:           cfg.Metrics,
		locks:             newKeyLock(),
		logger:            logger,
		keepLeadOnFailure: cfg.KeepLeadOnFailure,
		now:               time.Now,
	}
}

// HandleMessage advances the sender's conversation with one inbound text.
// The get-modify-upsert sequence runs under a per-sender lock so concurrent
// deliveries for the same sender cannot duplicate a transition. Errors are
// returned for logging only; nothing here is fatal to the process.
func (e *Engine) HandleMessage(ctx context.Context, senderID, text string) error {
	e.locks.Lock(senderID)
	defer e.locks.Unlock(senderID)

	rec, err := e.store.Get(ctx, senderID)
	if err != nil {
		return fmt.Errorf("conversation: load state: %w", err)
	}

	if rec == nil {
		return e.startFlow(ctx, senderID)
	}

	trimmed := strings.TrimSpace(text)

	switch rec.State {
	case StateAskName:
		if err := e.store.Upsert(ctx, senderID, Fields{State: stateRef(StateAskPhone), Name: stringRef(trimmed)}); err != nil {
			return fmt.Errorf("conversation: store name: %w", err)
		}
		e.metrics.ObserveTransition(string(StateAskName), string(StateAskPhone))
		e.send(ctx, senderID, fmt.Sprintf("Nice to meet you, %s! Please share your phone number so we can contact you.", firstToken(trimmed)))
		return nil

	case StateAskPhone:
		if countDigits(trimmed) < minPhoneDigits {
			e.send(ctx, senderID, promptPhoneShort)
			return nil
		}
		// The raw trimmed text is stored, not just its digits
		if err := e.store.Upsert(ctx, senderID, Fields{State: stateRef(StateAskGoal), Phone: stringRef(trimmed)}); err != nil {
			return fmt.Errorf("conversation: store phone: %w", err)
		}
		e.metrics.ObserveTransition(string(StateAskPhone), string(StateAskGoal))
		e.send(ctx, senderID, promptAskGoal)
		return nil

	case StateAskGoal:
		if err := e.store.Upsert(ctx, senderID, Fields{State: stateRef(StateAskNotes), Goal: stringRef(trimmed)}); err != nil {
			return fmt.Errorf("conversation: store goal: %w", err)
		}
		e.metrics.ObserveTransition(string(StateAskGoal), string(StateAskNotes))
		e.send(ctx, senderID, promptAskNotes)
		return nil

	case StateAskNotes:
		return e.finish(ctx, rec, trimmed)

	default:
		e.send(ctx, senderID, promptFallback)
		return nil
	}
}

// startFlow creates the record and asks for the sender's name.
func (e *Engine) startFlow(ctx context.Context, senderID string) error {
	if err := e.store.Upsert(ctx, senderID, Fields{State: stateRef(StateAskName)}); err != nil {
		return fmt.Errorf("conversation: start flow: %w", err)
	}
	e.metrics.ObserveTransition("none", string(StateAskName))
	e.send(ctx, senderID, promptAskName)
	return nil
}

// finish assembles the lead, submits it, and retires the conversation.
// The record is deleted whether or not the sink accepted the lead, unless
// the keep-on-failure policy is configured.
func (e *Engine) finish(ctx context.Context, rec *Record, trimmed string) error {
	notes := trimmed
	if strings.EqualFold(trimmed, "no") {
		notes = ""
	}

	lead := leads.Lead{
		Timestamp: e.now().UTC(),
		SenderID:  rec.SenderID,
		Name:      rec.Name,
		Phone:     rec.Phone,
		Goal:      rec.Goal,
		Notes:     notes,
	}

	err := e.submit(ctx, lead)
	if err == nil {
		e.metrics.ObserveLead("submitted")
		e.send(ctx, rec.SenderID, promptThanks)
		if e.notifier != nil {
			e.notifier.LeadCaptured(ctx, lead)
		}
	} else {
		e.metrics.ObserveLead("failed")
		e.logger.Error("lead sink rejected lead",
			"sender_id", rec.SenderID,
			"error", err,
		)
		e.send(ctx, rec.SenderID, promptSinkFailed)
		if e.keepLeadOnFailure {
			e.logger.Warn("keeping conversation for retry", "sender_id", rec.SenderID)
			return nil
		}
	}

	if delErr := e.store.Delete(ctx, rec.SenderID); delErr != nil {
		return fmt.Errorf("conversation: retire record: %w", delErr)
	}
	return nil
}

func (e *Engine) submit(ctx context.Context, lead leads.Lead) error {
	if e.sink == nil {
		return leads.ErrSinkNotConfigured
	}
	return e.sink.Append(ctx, lead)
}

// send delivers an outbound text; failures are logged, never propagated.
func (e *Engine) send(ctx context.Context, recipientID, text string) {
	if e.sender == nil {
		return
	}
	if err := e.sender.SendMessage(ctx, recipientID, text); err != nil {
		e.logger.Warn("outbound message failed",
			"recipient_id", recipientID,
			"error", err,
		)
	}
}

// firstToken returns the first whitespace-delimited token, or "" when none.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// countDigits counts decimal digits in any script, not just ASCII.
func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
