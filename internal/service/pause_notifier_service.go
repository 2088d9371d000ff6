package service

import (
	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/internal/pkg/mailer"
)

// pauseNotifierService emails the assigned analyst when a run suspends for
// clarification. Fire-and-forget; the pipeline is already parked and a lost
// email only delays a human, it never corrupts the run.
type pauseNotifierService struct {
	emailService mailer.IEmailService
	analystEmail string
	logger       logger.ILogger
}

func NewPauseNotifierService(emailService mailer.IEmailService, analystEmail string, log logger.ILogger) *pauseNotifierService {
	return &pauseNotifierService{
		emailService: emailService,
		analystEmail: analystEmail,
		logger:       log,
	}
}

func (s *pauseNotifierService) NotifyPaused(session *entity.IntakeSession, requests []entity.ClarificationRequest) {
	if s.emailService == nil || s.analystEmail == "" {
		return
	}

	sessionId := session.Id.String()
	count := len(requests)
	go func() {
		if err := s.emailService.SendClarificationNotice(s.analystEmail, sessionId, count); err != nil {
			s.logger.Warn("PauseNotifier", "Failed to send clarification notice", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}()
}
