// Package mailer sends transactional email over SMTP. Sending is a
// side effect only: a failed send never unwinds a payment-state
// transition that has already been committed.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTP sends confirmation mail through an SMTP relay (Gmail by
// default in deployment). The dialer opens a fresh connection per
// message, which is fine at confirmation-mail volume.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds an SMTP mailer. The user doubles as the From address.
func NewSMTP(host string, port int, user, pass string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

// SendReservationConfirmed sends a single confirmation message to all
// recipients at once. Date and time may be empty when the reservation
// was created without them; the message degrades to omitting the lines.
func (m *SMTP) SendReservationConfirmed(to []string, serviceDate, serviceTime string) error {
	body := "Hola,\n\nTu servicio ha sido confirmado con éxito.\n"
	if serviceDate != "" {
		body += fmt.Sprintf("Fecha: %s\n", serviceDate)
	}
	if serviceTime != "" {
		body += fmt.Sprintf("Hora: %s\n", serviceTime)
	}
	body += "\n¡Gracias por usar Talento Local!"

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", "Confirmación de Servicio - Talento Local")
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
