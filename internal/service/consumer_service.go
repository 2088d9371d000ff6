package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"deal-intake-be/internal/dto"
	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the snapshot topic and upserts one row per session.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistSnapshotMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal snapshot message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	record := &entity.SessionSnapshotRecord{
		SessionId:    payload.SessionId,
		Status:       payload.Status,
		CurrentPhase: payload.CurrentPhase,
		Payload:      payload.Snapshot,
		UpdatedAt:    time.Now(),
	}

	if err := uow.SessionSnapshotRepository().Upsert(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to upsert snapshot for session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
