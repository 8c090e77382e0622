package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ironclubfit/gymlead-ai/internal/leads"
)

type fakeEmail struct {
	sent []EmailMessage
	err  error
}

func (f *fakeEmail) Send(ctx context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testLead() leads.Lead {
	return leads.Lead{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SenderID:  "u1",
		Name:      "Jane Doe",
		Phone:     "555-123-4567",
		Goal:      "lose fat",
		Notes:     "evenings only",
	}
}

func TestLeadCapturedSendsEmail(t *testing.T) {
	email := &fakeEmail{}
	svc := NewService(email, "staff@ironclub.fit", nil)

	svc.LeadCaptured(context.Background(), testLead())

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}
	msg := email.sent[0]
	if msg.To != "staff@ironclub.fit" {
		t.Errorf("to = %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "Jane Doe") {
		t.Errorf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Jane Doe", "555-123-4567", "lose fat", "evenings only", "u1"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q: %s", want, msg.Body)
		}
	}
}

func TestLeadCapturedSwallowsSendFailure(t *testing.T) {
	email := &fakeEmail{err: errors.New("rate limited")}
	svc := NewService(email, "staff@ironclub.fit", nil)

	// Must not panic or propagate
	svc.LeadCaptured(context.Background(), testLead())
}

func TestNewServiceNilWhenUnconfigured(t *testing.T) {
	if svc := NewService(nil, "staff@ironclub.fit", nil); svc != nil {
		t.Error("expected nil service without sender")
	}
	if svc := NewService(&fakeEmail{}, "", nil); svc != nil {
		t.Error("expected nil service without recipient")
	}

	var svc *Service
	svc.LeadCaptured(context.Background(), testLead())
}
