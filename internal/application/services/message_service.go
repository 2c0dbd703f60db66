package services

import (
	"context"

	"github.com/asaskevich/EventBus"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// MessageService handles the chat log. Messages are opaque JSON values,
// appended in arrival order.
type MessageService struct {
	repo   ports.MessageRepository
	bus    EventBus.Bus
	logger *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(repo ports.MessageRepository, bus EventBus.Bus, logger *logger.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// List returns the full message log.
func (s *MessageService) List(ctx context.Context) ([]entities.Message, error) {
	return s.repo.GetAll(ctx)
}

// Append adds a message to the log and announces the change. It returns
// the full log so callers can push it out without a second read.
func (s *MessageService) Append(ctx context.Context, message entities.Message) ([]entities.Message, error) {
	messages, err := s.repo.Append(ctx, message)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("Message appended", "log_size", len(messages))
	s.bus.Publish(TopicMessagesChanged)
	return messages, nil
}

var _ ports.MessageService = (*MessageService)(nil)
