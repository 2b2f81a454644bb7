package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	"gorm.io/gorm"
)

// Mailer sends the transactional settlement emails over SMTP. The recipient
// address is resolved from the profile at send time.
type Mailer struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	appName string
	db      *gorm.DB
}

// NewMailerFromEnv returns nil (not an error) when SMTP is not configured,
// so deployments without mail simply skip the channel.
func NewMailerFromEnv(db *gorm.DB) *Mailer {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if host == "" || port == "" {
		return nil
	}
	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "TaskEarn"
	}
	return &Mailer{
		host:    host,
		port:    port,
		user:    os.Getenv("SMTP_USER"),
		pass:    os.Getenv("SMTP_PASS"),
		from:    os.Getenv("SMTP_FROM"),
		appName: appName,
		db:      db,
	}
}

func (m *Mailer) Name() string { return "email" }

func (m *Mailer) Send(_ context.Context, ev Event) error {
	tpl, ok := templateFor(ev)
	if !ok {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	var profile models.Profile
	if err := m.db.Select("email", "username").First(&profile, ev.UserID).Error; err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if profile.Email == "" {
		return errors.New("recipient has no email address")
	}

	body := m.renderHTML(profile.Username, tpl, ev)
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + profile.Email + "\r\n" +
			"Subject: " + tpl.Subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
			"\r\n" + body)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{profile.Email}, msg)
}

func (m *Mailer) renderHTML(username string, tpl template, ev Event) string {
	amount := fmt.Sprintf("$%.2f", ev.Amount)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#0a0a0a;">
    <div style="max-width:600px;margin:0 auto;padding:40px 20px;">
      <div style="background:#16213e;border-radius:16px;padding:40px;border:1px solid #333;">
        <h1 style="color:#22c55e;font-size:28px;text-align:center;margin:0 0 30px 0;">%s</h1>
        <div style="border-left:4px solid %s;padding:20px;border-radius:8px;margin-bottom:30px;">
          <h2 style="color:%s;margin:0 0 10px 0;font-size:24px;">%s</h2>
          <p style="color:#e0e0e0;margin:0;font-size:16px;">Amount: <strong>%s</strong></p>
        </div>
        <p style="color:#e0e0e0;font-size:16px;">Hi %s,</p>
        <p style="color:#e0e0e0;font-size:16px;">%s</p>
        <p style="color:#888;font-size:12px;margin-top:30px;">You are receiving this email because you have an account with %s.</p>
      </div>
    </div>
  </body>
</html>`, m.appName, tpl.Color, tpl.Color, tpl.Heading, amount, username, tpl.Message, m.appName)
}
