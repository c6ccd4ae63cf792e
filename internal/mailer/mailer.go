package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/webcarros/backend/internal/config"
)

// SMTPMailer sends the listing-created notification to the listing owner.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (s *SMTPMailer) SendListingCreatedEmail(toEmail, listingName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Seu anúncio foi publicado")
	m.SetBody("text/plain", "Seu anúncio '"+listingName+"' foi publicado com sucesso no webCarros.")

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
