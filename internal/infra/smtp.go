package infra

import (
	"fmt"
	"net/smtp"
	"path/filepath"

	"depotpos/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipt emails over plain SMTP. It stays synchronous on
// purpose: the email worker already runs it off the request path.
type Mailer struct {
	from string
	addr string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from: cfg.SMTPUser,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// SendReceipt mails the rendered PDF receipt to a customer. An empty pdfPath
// sends the text body alone, for sales whose receipt has not rendered yet.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)

	if pdfPath != "" {
		att, err := msg.AttachFile(pdfPath)
		if err != nil {
			return fmt.Errorf("mailer: attach %s: %w", filepath.Base(pdfPath), err)
		}
		att.Filename = "receipt.pdf"
	}
	return msg.Send(m.addr, m.auth)
}
