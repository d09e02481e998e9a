// Package mail sends the transactional emails around content publishing:
// subscriber welcomes, new-article notifications, and admin alerts for
// comments and contact messages. Delivery is always best-effort; callers
// never fail their primary operation on a mail error.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// Mailer is the outbound email contract used by the handlers.
type Mailer interface {
	SendWelcome(ctx context.Context, to string) error
	SendNewArticle(ctx context.Context, recipients []string, article *domain.Article) error
	SendNewComment(ctx context.Context, comment *domain.Comment) error
	SendContactMessage(ctx context.Context, contact *domain.Contact) error
}

// NewMailer returns an SMTP-backed mailer when SMTP is configured, otherwise
// a no-op mailer that only logs.
func NewMailer(cfg *infra.Config, logger zerolog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Info().Msg("smtp not configured, outbound email disabled")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

type smtpMailer struct {
	cfg    *infra.Config
	logger zerolog.Logger
}

func (m *smtpMailer) SendWelcome(ctx context.Context, to string) error {
	body, err := render(welcomeTemplate, map[string]any{"SiteURL": m.cfg.SiteBaseURL})
	if err != nil {
		return err
	}
	return m.send(ctx, []string{to}, "Welcome to the newsletter", body)
}

func (m *smtpMailer) SendNewArticle(ctx context.Context, recipients []string, article *domain.Article) error {
	if len(recipients) == 0 {
		return nil
	}
	body, err := render(newArticleTemplate, map[string]any{
		"Title":    article.Title,
		"Category": article.Category.DisplayName(),
		"Excerpt":  article.Excerpt(),
		"URL":      fmt.Sprintf("%s/article/%s", strings.TrimRight(m.cfg.SiteBaseURL, "/"), article.ID),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New in %s: %s", article.Category.DisplayName(), article.Title)
	return m.send(ctx, recipients, subject, body)
}

func (m *smtpMailer) SendNewComment(ctx context.Context, comment *domain.Comment) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}
	body, err := render(newCommentTemplate, map[string]any{
		"Author":  comment.Author,
		"Article": comment.ArticleTitle,
		"Body":    comment.Body,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, []string{m.cfg.AdminEmail}, "New comment awaiting review", body)
}

func (m *smtpMailer) SendContactMessage(ctx context.Context, contact *domain.Contact) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}
	body, err := render(contactTemplate, map[string]any{
		"Name":    contact.Name,
		"Email":   contact.Email,
		"Subject": contact.Subject,
		"Body":    contact.Body,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, []string{m.cfg.AdminEmail}, "New contact message: "+contact.Subject, body)
}

func (m *smtpMailer) send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.MailFrom)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.MailFrom, to, msg.Bytes()); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

type logMailer struct {
	logger zerolog.Logger
}

func (m *logMailer) SendWelcome(_ context.Context, to string) error {
	m.logger.Debug().Str("to", to).Msg("skipped welcome email")
	return nil
}

func (m *logMailer) SendNewArticle(_ context.Context, recipients []string, article *domain.Article) error {
	m.logger.Debug().Int("recipients", len(recipients)).Str("title", article.Title).Msg("skipped article notification")
	return nil
}

func (m *logMailer) SendNewComment(_ context.Context, comment *domain.Comment) error {
	m.logger.Debug().Str("author", comment.Author).Msg("skipped comment notification")
	return nil
}

func (m *logMailer) SendContactMessage(_ context.Context, contact *domain.Contact) error {
	m.logger.Debug().Str("from", contact.Email).Msg("skipped contact notification")
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render mail template: %w", err)
	}
	return buf.String(), nil
}
