package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendClarificationNotice(toEmail, sessionId string, questions int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	baseURL     string
}

func NewEmailService(host string, port int, username, password, senderEmail, baseURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		baseURL:     baseURL,
	}
}

func (s *emailService) SendClarificationNotice(toEmail, sessionId string, questions int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Deal intake paused: clarification needed")

	sessionLink := fmt.Sprintf("%s/intake/%s", s.baseURL, sessionId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A deal intake run is waiting on you</h2>
			<p>The pipeline paused with <b>%d</b> open question(s) about the uploaded documents.</p>
			<p>The run stays paused until the questions are answered or skipped.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Review Session</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, questions, sessionLink, sessionLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send clarification notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Clarification notice sent to %s\n", toEmail)
	return nil
}
