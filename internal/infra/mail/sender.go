package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type emailTemplate struct {
	file    string
	subject string
}

var emailTemplates = map[queue.NotificationKind]emailTemplate{
	queue.KindActivation:      {"activation.html", "Seu convênio está ativo, %s!"},
	queue.KindRenewal:         {"renewal.html", "Convênio renovado, %s"},
	queue.KindRenewalReminder: {"reminder.html", "%s, seu convênio vence em breve"},
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "nao-responda@ligueconvenios.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) Configured() bool {
	return s.Host != ""
}

// Render returns subject and HTML body for the notification kind.
func Render(kind queue.NotificationKind, data NotificationEmailData) (string, string, error) {
	tmpl, ok := emailTemplates[kind]
	if !ok {
		return "", "", fmt.Errorf("sem template de email para %s", kind)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl.file, data); err != nil {
		return "", "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return fmt.Sprintf(tmpl.subject, data.Name), body.String(), nil
}

func (s *EmailSender) SendNotification(to string, kind queue.NotificationKind, data NotificationEmailData) error {
	subject, body, err := Render(kind, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
