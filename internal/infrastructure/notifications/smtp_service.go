package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"path/filepath"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// SMTPServiceImpl implements domain.NotificationService over plain
// SMTP, rendering html/template files from a template directory.
type SMTPServiceImpl struct {
	host        string
	port        int
	user        string
	password    string
	from        string
	templateDir string
}

// NewSMTPService creates a new SMTP notification service
func NewSMTPService(host string, port int, user, password, from, templateDir string) domain.NotificationService {
	return &SMTPServiceImpl{
		host:        host,
		port:        port,
		user:        user,
		password:    password,
		from:        from,
		templateDir: templateDir,
	}
}

// SendEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendEmail(to, subject, templateName string, data map[string]any) error {
	body, err := s.render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	// Without a configured host, log instead of sending. Delivery
	// failures must never corrupt auth state; callers decide whether
	// the error is fatal.
	if s.host == "" {
		log.Printf("EMAIL_MOCK: to=%s subject=%q", to, subject)
		return nil
	}

	msg := bytes.Buffer{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendSMS implements domain.NotificationService. SMS is not served
// over SMTP; wire the Twilio service for that channel.
func (s *SMTPServiceImpl) SendSMS(to, message string) error {
	log.Printf("SMS_MOCK: to=%s message=%q", to, message)
	return nil
}

func (s *SMTPServiceImpl) render(templateName string, data map[string]any) ([]byte, error) {
	path := filepath.Join(s.templateDir, templateName+".html")
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
