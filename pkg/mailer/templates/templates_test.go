package templates

import (
	"strings"
	"testing"
)

func TestRender_SubdomainRequested(t *testing.T) {
	data := NewSubdomainRequestedData("Portal", "https://portal.example", "a@example.com", "rec1", "robotics", "",
		WithLabels([]string{"clubs.dev"}, []string{"Robotics Club"}), WithRequestID("rid-9"))

	subject, text, html, err := Render(SubdomainRequested, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "[Portal] New subdomain request: robotics" {
		t.Fatalf("subject: %q", subject)
	}
	for _, want := range []string{"robotics", "clubs.dev", "Robotics Club", "a@example.com", "rid-9", "GitHub repo: -"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(html, "https://portal.example") {
		t.Fatalf("html missing dashboard link")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}
