package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"lexfirm_api_go/config"
	"lexfirm_api_go/models"
	"lexfirm_api_go/services/i18n"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

//go:embed templates/emails/*
var emailTemplates embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers a built email.
type EmailSender interface {
	Send(ctx context.Context, email *Email) error
}

// Mailer sends email through Resend, or logs it when test mode is on.
type Mailer struct {
	cfg    *config.Config
	client *resend.Client
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.ResendAPIKey != "" {
		m.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return m
}

// Send sends an email using the Resend API
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if m.cfg.EmailTestMode {
		logEmail(email)
		return nil
	}

	if m.client == nil {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.EmailFromName, m.cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	zap.S().Infow("Email sent", "id", sent.Id, "to", email.To)
	return nil
}

func logEmail(email *Email) {
	zap.S().Infow("Email logged (test mode, not sent)",
		"to", email.To,
		"subject", email.Subject,
		"text", email.TextBody,
		"html", truncate(email.HTMLBody, 500),
	)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// renderEmail executes the html and txt templates named name.
func renderEmail(name string, data interface{}) (html string, text string, err error) {
	htmlTmpl, err := htmltemplate.ParseFS(emailTemplates, "templates/emails/"+name+".html")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	html = buf.String()

	textTmpl, err := texttemplate.ParseFS(emailTemplates, "templates/emails/"+name+".txt")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	buf.Reset()
	if err := textTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return html, buf.String(), nil
}

// HearingReminderEmailData holds the translated lines of a reminder.
type HearingReminderEmailData struct {
	Greeting string
	Body     string
	Location string
	Footer   string
}

// BuildHearingReminderEmail creates the reminder sent to the lawyer
// responsible for the hearing's case.
func BuildHearingReminderEmail(to, lawyerName string, hearing *models.Hearing, lang string) (*Email, error) {
	at := hearing.ScheduledAt
	date := at.Format(i18n.Translate(lang, "date.format"))
	clockTime := hearing.Time
	if clockTime == "" {
		clockTime = at.Format("15:04")
	}

	var caseNumber, caseName string
	if hearing.Case != nil {
		caseNumber = hearing.Case.CaseNumber
		caseName = hearing.Case.Name
	}

	data := HearingReminderEmailData{
		Greeting: i18n.Translate(lang, "email.reminder.greeting", map[string]interface{}{"name": lawyerName}),
		Body: i18n.Translate(lang, "email.reminder.body", map[string]interface{}{
			"type":     hearing.Type,
			"case":     caseNumber,
			"caseName": caseName,
			"date":     date,
			"time":     clockTime,
		}),
		Footer: i18n.Translate(lang, "email.reminder.footer"),
	}
	if location := hearingLocation(hearing); location != "" {
		data.Location = i18n.Translate(lang, "email.reminder.location", map[string]interface{}{"location": location})
	}

	html, text, err := renderEmail("hearing_reminder", data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{to},
		Subject:  i18n.Translate(lang, "email.reminder.subject", map[string]interface{}{"case": caseNumber, "date": date}),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

func hearingLocation(h *models.Hearing) string {
	var parts []string
	if h.Tribunal != nil {
		parts = append(parts, h.Tribunal.Name)
	}
	if h.Location != nil && *h.Location != "" {
		parts = append(parts, *h.Location)
	}
	return strings.Join(parts, ", ")
}
