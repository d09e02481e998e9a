package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

func TestNewMailerFallsBackToNoop(t *testing.T) {
	m := NewMailer(&infra.Config{}, zerolog.Nop())
	if _, ok := m.(*logMailer); !ok {
		t.Fatalf("NewMailer without smtp host = %T, want *logMailer", m)
	}

	m = NewMailer(&infra.Config{SMTPHost: "smtp.example.com"}, zerolog.Nop())
	if _, ok := m.(*smtpMailer); !ok {
		t.Fatalf("NewMailer with smtp host = %T, want *smtpMailer", m)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	body, err := render(newCommentTemplate, map[string]any{
		"Author":  "eve",
		"Article": "Final recap",
		"Body":    `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("comment body not escaped: %s", body)
	}
	if !strings.Contains(body, "Final recap") {
		t.Fatalf("article title missing from body: %s", body)
	}
}

func TestWelcomeTemplateLinksSite(t *testing.T) {
	body, err := render(welcomeTemplate, map[string]any{"SiteURL": "https://news.example.com"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, `href="https://news.example.com"`) {
		t.Fatalf("site link missing from body: %s", body)
	}
}

func TestLogMailerIsSilentNoop(t *testing.T) {
	m := &logMailer{logger: zerolog.Nop()}
	if err := m.SendWelcome(context.Background(), "reader@example.com"); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
}
