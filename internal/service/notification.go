package service

import (
	"context"

	"github.com/google/uuid"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/repository"
	"elearning_platform/pkg/logger"
)

type NotificationService interface {
	List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, notificationID int64) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	log              logger.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, log logger.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		log:              log,
	}
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	return s.notificationRepo.GetByRecipient(ctx, recipientID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID uuid.UUID, notificationID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}
