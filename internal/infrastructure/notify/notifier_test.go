package notify

import (
	"context"
	"testing"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/pkg/mailer"
)

type capturePublisher struct{ got []any }

func (c *capturePublisher) PublishJSON(_ context.Context, body any) error {
	c.got = append(c.got, body)
	return nil
}

func TestQueueNotifier_PublishesRenderableJob(t *testing.T) {
	pub := &capturePublisher{}
	n := NewQueueNotifier(pub, "ops@example.com", "Portal", "https://portal.example")

	err := n.SubdomainRequested(context.Background(), entity.Subdomain{ID: "rec1", Label: "alpha", OwnerEmail: "a@example.com"}, "rid")
	if err != nil {
		t.Fatalf("SubdomainRequested: %v", err)
	}
	if len(pub.got) != 1 {
		t.Fatalf("published %d messages", len(pub.got))
	}
	job, ok := pub.got[0].(mailer.EmailJob)
	if !ok || job.To != "ops@example.com" {
		t.Fatalf("job: %#v", pub.got[0])
	}
	if _, _, _, err := job.Compose(); err != nil {
		t.Fatalf("Compose: %v", err)
	}
}

func TestQueueNotifier_RequiresRecipient(t *testing.T) {
	n := NewQueueNotifier(&capturePublisher{}, "", "Portal", "")
	if err := n.SubdomainRequested(context.Background(), entity.Subdomain{}, ""); err == nil {
		t.Fatalf("expected error")
	}
}
