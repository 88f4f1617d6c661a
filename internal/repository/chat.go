package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"elearning_platform/internal/domain"
	"elearning_platform/pkg/logger"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	// GetRoomMessages возвращает последние limit сообщений комнаты,
	// отсортированные от новых к старым. Переворот для отображения -
	// забота вызывающего.
	GetRoomMessages(ctx context.Context, roomName string, limit int) ([]*domain.ChatMessage, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (sender_id, room_name, message_type, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.SenderID, message.RoomName, message.MessageType,
		message.Content, message.CreatedAt,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create chat message", "error", err, "room", message.RoomName)
		return err
	}

	return nil
}

func (r *chatRepository) GetRoomMessages(ctx context.Context, roomName string, limit int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, sender_id, room_name, message_type, content, created_at
		FROM chat_messages
		WHERE room_name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, roomName, limit)
	if err != nil {
		r.log.Error("Failed to get room messages", "error", err, "room", roomName)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		message := &domain.ChatMessage{}
		err := rows.Scan(
			&message.ID, &message.SenderID, &message.RoomName,
			&message.MessageType, &message.Content, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
