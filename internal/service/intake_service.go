package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deal-intake-be/internal/dto"
	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/internal/repository/memory"
	"deal-intake-be/internal/repository/specification"
	"deal-intake-be/internal/repository/unitofwork"
	"deal-intake-be/internal/websocket"
	"deal-intake-be/pkg/nats"
	"deal-intake-be/pkg/pipeline"
	"deal-intake-be/pkg/stream"

	"github.com/google/uuid"
)

var (
	ErrNoFiles         = errors.New("at least one file is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotPaused       = errors.New("session is not awaiting clarification")
)

type IIntakeService interface {
	Submit(ctx context.Context, files []pipeline.SubmittedFile) (*dto.SubmitIntakeResponse, error)
	Resume(ctx context.Context, sessionId uuid.UUID, req *dto.ResumeIntakeRequest) (*dto.ResumeIntakeResponse, error)
	Status(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error)
	Subscribe(sessionId uuid.UUID) (*stream.Subscriber, *stream.Channel, error)
	History(sessionId uuid.UUID) ([]stream.Event, error)
	ActiveCount() int
}

type intakeService struct {
	registry       *memory.SessionRegistry
	collab         pipeline.Collaborators
	uowFactory     unitofwork.RepositoryFactory
	natsPublisher  *nats.Publisher
	hub            *websocket.Hub
	pipelineLogger logger.ILogger
	logger         logger.ILogger
}

func NewIntakeService(
	registry *memory.SessionRegistry,
	collab pipeline.Collaborators,
	uowFactory unitofwork.RepositoryFactory,
	natsPublisher *nats.Publisher,
	hub *websocket.Hub,
	pipelineLogger logger.ILogger,
	log logger.ILogger,
) IIntakeService {
	return &intakeService{
		registry:       registry,
		collab:         collab,
		uowFactory:     uowFactory,
		natsPublisher:  natsPublisher,
		hub:            hub,
		pipelineLogger: pipelineLogger,
		logger:         log,
	}
}

// Submit accepts the uploaded documents, registers a new session and starts
// the pipeline on its own goroutine. The response returns immediately with
// the session id and its event stream URL.
func (s *intakeService) Submit(ctx context.Context, files []pipeline.SubmittedFile) (*dto.SubmitIntakeResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	session := entity.NewIntakeSession()
	sessionId := session.Id.String()
	channel := stream.NewChannel(sessionId)
	s.attachMirrors(channel)

	seq := pipeline.NewSequencer(session, channel, s.collab, s.pipelineLogger)
	s.registry.Save(sessionId, &memory.ActiveIntake{
		Sequencer: seq,
		Channel:   channel,
	})

	s.logger.Info("Intake", "Intake run accepted", map[string]interface{}{
		"session_id": sessionId,
		"file_count": len(files),
	})

	go func() {
		// Detached from the request context: the run outlives the HTTP call
		// and may park for days awaiting clarification.
		seq.Execute(context.Background(), files)
		s.registry.Retire(sessionId)
	}()

	return &dto.SubmitIntakeResponse{
		SessionId: sessionId,
		StreamURL: fmt.Sprintf("/api/intake/v1/%s/events", sessionId),
	}, nil
}

// attachMirrors fans every pipeline event out to the NATS bus and the
// websocket hub. Both are optional and best-effort.
func (s *intakeService) attachMirrors(channel *stream.Channel) {
	if s.natsPublisher != nil {
		channel.AddMirror(func(ev stream.Event) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.natsPublisher.Publish(ctx, ev); err != nil {
					s.logger.Warn("Intake", "Failed to mirror event to NATS", map[string]interface{}{
						"session_id": ev.SessionId,
						"type":       ev.Type,
						"error":      err.Error(),
					})
				}
			}()
		})
	}

	if s.hub != nil {
		channel.AddMirror(func(ev stream.Event) {
			payload, err := json.Marshal(ev)
			if err != nil {
				return
			}
			s.hub.BroadcastToSession(ev.SessionId, payload)
		})
	}
}

// Resume hands clarification answers to a paused run.
func (s *intakeService) Resume(ctx context.Context, sessionId uuid.UUID, req *dto.ResumeIntakeRequest) (*dto.ResumeIntakeResponse, error) {
	intake, found := s.registry.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	answers := make([]entity.ClarificationAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		requestId, err := uuid.Parse(a.RequestId)
		if err != nil {
			return nil, fmt.Errorf("invalid request id %q: %w", a.RequestId, err)
		}
		answers = append(answers, entity.ClarificationAnswer{
			RequestId: requestId,
			Action:    entity.ClarificationAction(a.Action),
			Value:     a.Value,
		})
	}

	if !intake.Sequencer.Resume(answers) {
		return nil, ErrNotPaused
	}

	s.logger.Info("Intake", "Intake run resumed", map[string]interface{}{
		"session_id": sessionId,
		"answers":    len(answers),
	})

	return &dto.ResumeIntakeResponse{
		SessionId: sessionId.String(),
		Resumed:   true,
	}, nil
}

// Status reports the current session state: live runs from the registry,
// finished or evicted runs from the persisted snapshot.
func (s *intakeService) Status(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error) {
	if intake, found := s.registry.Get(sessionId.String()); found {
		resp := dto.FromSession(intake.Sequencer.Snapshot())
		return &resp, nil
	}

	if s.uowFactory == nil {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.SessionSnapshotRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	var session entity.IntakeSession
	if err := json.Unmarshal(record.Payload, &session); err != nil {
		// Degraded snapshot: report what the record itself carries.
		return &dto.SessionStatusResponse{
			SessionId:    record.SessionId.String(),
			Status:       record.Status,
			CurrentPhase: record.CurrentPhase,
			UpdatedAt:    record.UpdatedAt,
		}, nil
	}

	resp := dto.FromSession(session)
	return &resp, nil
}

// Subscribe attaches an observer to a live (or recently finished) run's
// event channel. The subscriber's channel replays full history first.
func (s *intakeService) Subscribe(sessionId uuid.UUID) (*stream.Subscriber, *stream.Channel, error) {
	intake, found := s.registry.Get(sessionId.String())
	if !found {
		return nil, nil, ErrSessionNotFound
	}
	return intake.Channel.Subscribe(), intake.Channel, nil
}

// History returns a copy of the session's replay buffer.
func (s *intakeService) History(sessionId uuid.UUID) ([]stream.Event, error) {
	intake, found := s.registry.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}
	return intake.Channel.History(), nil
}

func (s *intakeService) ActiveCount() int {
	return s.registry.Count()
}
