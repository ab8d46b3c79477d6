package mailer

import (
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/club-subdomain-portal/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject+Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "subdomain_requested"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrInvalidJob = errors.New("invalid email job")

// Compose renders the job into subject, text and html bodies.
func (j EmailJob) Compose() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", fmt.Errorf("%w: missing subject or body", ErrInvalidJob)
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	subject, text, html, err = mailtpl.Render(j.Template, j.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if j.Subject != "" {
		subject = j.Subject
	}
	return subject, text, html, nil
}
