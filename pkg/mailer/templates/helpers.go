package templates

import "time"

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithRequestID(id string) Option { return func(d *EmailData) { d.RequestID = id } }

func WithLabels(domains, clubNames []string) Option {
	return func(d *EmailData) {
		d.Domains = domains
		d.ClubNames = clubNames
	}
}

// NewSubdomainRequestedData builds the payload for the operator email sent
// when a member submits a new subdomain request.
func NewSubdomainRequestedData(appName, dashboardURL, requestedBy, recordID, subdomain, githubRepo string, opts ...Option) map[string]any {
	d := EmailData{
		AppName:      appName,
		DashboardURL: dashboardURL,
		Type:         SubdomainRequested,
		RequestedBy:  requestedBy,
		RecordID:     recordID,
		Subdomain:    subdomain,
		GithubRepo:   githubRepo,
	}
	WithTime(time.Now())(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
