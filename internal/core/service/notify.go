package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// NotificationService dispatches notification emails through the mail
// collaborator. No retries: a failed dispatch surfaces to the caller.
type NotificationService struct {
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewNotificationService(mailer ports.Mailer, log zerolog.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, log: log}
}

func (s *NotificationService) Send(ctx context.Context, in ports.NotificationInput) error {
	if err := s.mailer.Send(ctx, in.Email, in.Subject, in.Text, in.HTML); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	s.log.Info().Str("to", in.Email).Str("subject", in.Subject).Msg("notification sent")
	return nil
}
