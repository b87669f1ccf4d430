package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/config"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

const dialTimeout = 15 * time.Second

var emailBody = template.Must(template.New("reminder").Parse(`<html>
<body>
<p>The following equipment is due for maintenance within the next {{.Window}} days:</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr>
<th>Equipment</th><th>Serial</th><th>Period</th><th>Department</th><th>Due Date</th><th>Engineer</th>
</tr>
{{range .Entries}}<tr>
<td>{{.Equipment}}</td><td>{{.Serial}}</td><td>{{.Period}}</td><td>{{.Department}}</td><td>{{.DueDate}}</td><td>{{.Engineer}}</td>
</tr>
{{end}}</table>
<p>This is an automated reminder from the equipment maintenance system.</p>
</body>
</html>`))

// EmailSender delivers reminder batches over SMTP with STARTTLS.
type EmailSender struct {
	cfg config.Config
}

// NewEmailSender returns an EmailSender using the given settings snapshot.
func NewEmailSender(cfg config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Name() string { return "email" }

// Notify renders the reminder table and sends it to the configured receiver
// and CC list.
func (s *EmailSender) Notify(ctx context.Context, entries []models.UpcomingEntry) error {
	if s.cfg.EmailSender == "" || s.cfg.EmailReceiver == "" {
		return fmt.Errorf("email sender or receiver not configured")
	}

	body, err := s.render(entries)
	if err != nil {
		return fmt.Errorf("rendering reminder email: %w", err)
	}

	recipients := append([]string{s.cfg.EmailReceiver}, s.cfg.CCEmails...)
	msg := s.message(recipients, body)

	return s.send(ctx, recipients, msg)
}

func (s *EmailSender) render(entries []models.UpcomingEntry) (string, error) {
	var b strings.Builder
	data := struct {
		Window  int
		Entries []models.UpcomingEntry
	}{s.cfg.ReminderDays, entries}
	if err := emailBody.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *EmailSender) message(recipients []string, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.EmailSender)
	fmt.Fprintf(&b, "To: %s\r\n", s.cfg.EmailReceiver)
	if len(s.cfg.CCEmails) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(s.cfg.CCEmails, ", "))
	}
	b.WriteString("Subject: Upcoming Equipment Maintenance Reminder\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// send speaks SMTP by hand rather than through smtp.SendMail so the dial
// honors a timeout and the context.
func (s *EmailSender) send(ctx context.Context, recipients []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPServer, s.cfg.SMTPPort)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPServer)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPServer}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.SMTPUsername != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPServer)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.EmailSender); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}
	return client.Quit()
}
