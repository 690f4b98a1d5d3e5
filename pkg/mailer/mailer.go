package mailer

import (
	"crypto/tls"
	"log"
	"net/smtp"
	"sync"
)

type Mailer interface {
	Send(to string, subject string, body string) error
}

// SMTPMailer sends over implicit TLS.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func NewSMTPMailer(host, port, from, password string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		From:     from,
		Password: password,
	}
}

func (m *SMTPMailer) Send(to string, subject string, body string) error {
	message := []byte("Subject: " + subject + "\r\n\r\n" + body + "\n")
	conn, err := tls.Dial("tcp", m.Host+":"+m.Port, &tls.Config{
		ServerName: m.Host,
	})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err = c.Auth(smtp.PlainAuth("", m.From, m.Password, m.Host)); err != nil {
		return err
	}
	if err = c.Mail(m.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(message); err != nil {
		return err
	}
	return w.Close()
}

// LogMailer prints messages instead of sending them. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(to string, subject string, body string) error {
	log.Printf("MAIL|%s|%s", to, subject)
	return nil
}

type Message struct {
	To      string
	Subject string
	Body    string
}

// RecordingMailer keeps sent messages in memory.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *RecordingMailer) Send(to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

func (m *RecordingMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message{}, m.sent...)
}
