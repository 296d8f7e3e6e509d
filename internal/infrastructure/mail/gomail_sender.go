// Package mail implementa el envío digital de comprobantes por SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/pkg/config"
)

var _ fiscal.MailSender = (*GomailSender)(nil)

// GomailSender implementa fiscal.MailSender sobre gomail (SMTP).
// Un fallo aquí es un fallo de transporte: el caso de uso no cambia el estado
// del comprobante y el cliente puede reintentar el envío.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.MailConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía el correo con los adjuntos indicados. Respeta la cancelación del
// contexto antes de abrir la conexión SMTP (gomail no acepta context).
func (s *GomailSender) Send(ctx context.Context, to, subject, body string, attachments []fiscal.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	for _, att := range attachments {
		content := att.Content
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(content))
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.MIMEType}}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
