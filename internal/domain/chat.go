package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage привязан к комнате по строковому имени: id курса или "general".
// Имя комнаты намеренно не является внешним ключом - чат разрешает
// произвольные комнаты, доступ проверяет CRUD-слой.
type ChatMessage struct {
	ID          int64     `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RoomName    string    `json:"room_name"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	MessageTypeUser   = "user"
	MessageTypeSystem = "system"
)
