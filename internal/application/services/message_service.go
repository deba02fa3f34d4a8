package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// MessageService handles contact inquiries
type MessageService struct {
	messageRepo ports.MessageRepository
	validate    *validator.Validate
	logger      *logger.Logger
	now         func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo ports.MessageRepository, validate *validator.Validate, logger *logger.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

var _ ports.MessageService = (*MessageService)(nil)

// List returns all messages, newest first
func (s *MessageService) List(ctx context.Context) ([]*entities.Message, error) {
	messages, err := s.messageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	entities.SortMessagesNewestFirst(messages)
	return messages, nil
}

func (s *MessageService) Get(ctx context.Context, id int) (*entities.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %d: %w", id, err)
	}

	return message, nil
}

// Submit records a contact inquiry from the public site
func (s *MessageService) Submit(ctx context.Context, req ports.ContactRequest) (*entities.Message, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	message := &entities.Message{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
		Timestamp: entities.FormatTimestamp(s.now()),
		Status:    entities.MessageStatusNew,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.logger.Info("Contact message received", "message_id", message.ID, "service", message.Service)

	return message, nil
}

// UpdateStatus overwrites the status label. Any non-empty label is accepted.
func (s *MessageService) UpdateStatus(ctx context.Context, id int, req ports.UpdateMessageStatusRequest) (*entities.Message, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Update(ctx, id, func(m *entities.Message) error {
		m.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update message %d: %w", id, err)
	}

	s.logger.Info("Message status updated", "message_id", id, "status", req.Status)

	return message, nil
}

func (s *MessageService) Delete(ctx context.Context, id int) error {
	if _, err := s.messageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}

	s.logger.Info("Message deleted successfully", "message_id", id)

	return nil
}
