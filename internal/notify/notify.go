// Package notify delivers authority notifications over SMTP. Delivery is a
// collaborator concern: senders treat a failed or disabled send as a logged
// non-event, never a request failure.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"golang.org/x/sync/errgroup"
)

// System defines the public contract for notification delivery.
type System interface {
	// Send delivers the message to every configured recipient. A no-op
	// with a logged line when delivery is unconfigured.
	Send(ctx context.Context, subject, body string) error
}

type system struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a notification System.
func New(cfg Config, logger *slog.Logger) System {
	return &system{
		cfg:    cfg,
		logger: logger.With("system", "notify"),
	}
}

func (s *system) Send(ctx context.Context, subject, body string) error {
	if !s.cfg.Enabled() {
		s.logger.Info("notification skipped", "reason", "smtp not configured", "subject", subject)
		return nil
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, recipient := range s.cfg.Recipients {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			msg := formatMessage(s.cfg.From, recipient, subject, body)
			if err := smtp.SendMail(s.cfg.Addr(), auth, s.cfg.From, []string{recipient}, msg); err != nil {
				return fmt.Errorf("send to %s: %w", recipient, err)
			}

			s.logger.Info("notification sent", "recipient", recipient, "subject", subject)
			return nil
		})
	}

	return g.Wait()
}

func formatMessage(from, to, subject, body string) []byte {
	return fmt.Appendf(nil,
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)
}
