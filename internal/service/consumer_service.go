package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-model-advisor-be/internal/dto"
	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/unitofwork"
	"ai-model-advisor-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the turn-completed queue and writes the per-user
// turn log to Postgres. Persistence runs off the request path so a slow
// database never stalls a chat reply.
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
	var payload dto.TurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Recording turn for user %s", payload.UserId)

	completedAt := payload.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	turns := []*entity.AdvisorTurn{
		{
			Id:        uuid.New(),
			UserId:    payload.UserId,
			Role:      store.RoleUser,
			Content:   payload.UserContent,
			CreatedAt: completedAt,
		},
		{
			Id:             uuid.New(),
			UserId:         payload.UserId,
			Role:           store.RoleModel,
			Content:        payload.ReplyContent,
			Recommendation: payload.Recommendation,
			// Reply row sorts after the user row on equal timestamps only by
			// insertion order, so nudge it forward.
			CreatedAt: completedAt.Add(time.Millisecond),
		},
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	for _, turn := range turns {
		if err := uow.AdvisorTurnRepository().Create(ctx, turn); err != nil {
			log.Printf("[ERROR] Failed to record turn for user %s: %v", payload.UserId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit turn log: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Turn recorded for user %s", payload.UserId)
	msg.Ack()
}
