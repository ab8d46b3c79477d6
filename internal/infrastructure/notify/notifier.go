package notify

import (
	"context"
	"errors"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/pkg/mailer"
	mailtpl "github.com/oksasatya/club-subdomain-portal/pkg/mailer/templates"
)

// Publisher puts a JSON message on a queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns subdomain requests into email jobs for the notify worker.
type QueueNotifier struct {
	Pub          Publisher
	To           string
	AppName      string
	DashboardURL string
}

func NewQueueNotifier(pub Publisher, to, appName, dashboardURL string) *QueueNotifier {
	return &QueueNotifier{Pub: pub, To: to, AppName: appName, DashboardURL: dashboardURL}
}

func (n *QueueNotifier) SubdomainRequested(ctx context.Context, s entity.Subdomain, requestID string) error {
	if n.To == "" {
		return errors.New("notify: no operator email configured")
	}
	job := BuildRequestedJob(n.To, n.AppName, n.DashboardURL, s, requestID)
	return n.Pub.PublishJSON(ctx, job)
}

// BuildRequestedJob is the queue payload for a new subdomain request.
func BuildRequestedJob(to, appName, dashboardURL string, s entity.Subdomain, requestID string) mailer.EmailJob {
	return mailer.EmailJob{
		To:       to,
		Template: mailtpl.SubdomainRequested,
		Data: mailtpl.NewSubdomainRequestedData(appName, dashboardURL, s.OwnerEmail, s.ID, s.Label, s.GithubRepo,
			mailtpl.WithLabels(s.DomainNames, s.ClubNameNames),
			mailtpl.WithRequestID(requestID),
		),
	}
}
