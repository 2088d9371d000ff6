package service

import (
	"encoding/json"

	"deal-intake-be/internal/dto"
	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ISnapshotPublisherService hands session snapshots to the internal bus so
// persistence happens off the pipeline goroutine. Publishing is best-effort:
// a full bus or marshal failure is logged and the run continues.
type ISnapshotPublisherService interface {
	PublishSnapshot(session *entity.IntakeSession)
}

type snapshotPublisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewSnapshotPublisherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) ISnapshotPublisherService {
	return &snapshotPublisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (s *snapshotPublisherService) PublishSnapshot(session *entity.IntakeSession) {
	// Marshal synchronously while the caller still holds a stable view of
	// the session; the bytes travel, the pointer does not.
	snapshot, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("SnapshotPublisher", "Failed to marshal session snapshot", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}

	payload, err := json.Marshal(dto.PersistSnapshotMessage{
		SessionId:    session.Id,
		Status:       string(session.Status),
		CurrentPhase: string(session.CurrentPhase),
		Snapshot:     snapshot,
	})
	if err != nil {
		s.logger.Error("SnapshotPublisher", "Failed to marshal snapshot message", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Warn("SnapshotPublisher", "Failed to publish snapshot message", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}
