package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"elearning_platform/internal/domain"
	"elearning_platform/pkg/logger"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// GetByRecipient возвращает уведомления получателя от новых к старым
	GetByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)
	// MarkRead помечает одно уведомление; recipientID защищает от чужих id
	MarkRead(ctx context.Context, notificationID int64, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type notificationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, log logger.Logger) NotificationRepository {
	return &notificationRepository{db: db, log: log}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, kind, message, course_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		notification.RecipientID, notification.Kind, notification.Message,
		notification.CourseID, notification.IsRead, notification.CreatedAt,
	).Scan(&notification.ID, &notification.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create notification", "error", err, "recipient", notification.RecipientID)
		return err
	}

	return nil
}

func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, kind, message, course_id, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, recipientID, unreadOnly)
	if err != nil {
		r.log.Error("Failed to get notifications", "error", err, "recipient", recipientID)
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification := &domain.Notification{}
		err := rows.Scan(
			&notification.ID, &notification.RecipientID, &notification.Kind,
			&notification.Message, &notification.CourseID, &notification.IsRead,
			&notification.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan notification", "error", err)
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID int64, recipientID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND recipient_id = $2
	`

	_, err := r.db.Exec(ctx, query, notificationID, recipientID)
	if err != nil {
		r.log.Error("Failed to mark notification read", "error", err, "id", notificationID)
		return err
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE recipient_id = $1 AND is_read = false
	`

	_, err := r.db.Exec(ctx, query, recipientID)
	if err != nil {
		r.log.Error("Failed to mark all notifications read", "error", err, "recipient", recipientID)
		return err
	}

	return nil
}
