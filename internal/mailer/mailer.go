package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/theheadmen/figurine/internal/serverconfig"
)

// Mailer отправляет письма подтверждения через SMTP.
type Mailer struct {
	cfg serverconfig.MailConfig
}

func NewMailer(cfg serverconfig.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled сообщает, настроен ли почтовый сервер. Без настройки регистрация
// продолжает работать, ссылка подтверждения попадает только в лог.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.Username != ""
}

// SendConfirmation отправляет письмо со ссылкой подтверждения почты.
func (m *Mailer) SendConfirmation(to, link string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: MAIL_HOST or MAIL_USERNAME not configured")
	}

	subject := "Подтверждение почты"
	body := fmt.Sprintf("Здравствуйте!\r\n\r\nДля подтверждения почты перейдите по ссылке:\r\n%s\r\n\r\nСсылка действует один час.\r\n", link)

	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(b.String()))
}
