package ws

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"elearning_platform/internal/registry"
	"elearning_platform/pkg/logger"
)

// NotifySession - персональный канал уведомлений пользователя.
// Анонимные подключения отклоняются еще в handler, до создания сессии.
type NotifySession struct {
	*Client
	userID uuid.UUID
}

func NewNotifySession(conn *websocket.Conn, userID uuid.UUID, reg registry.Registry, log logger.Logger) *NotifySession {
	return &NotifySession{
		Client: newClient(conn, reg, log),
		userID: userID,
	}
}

func (s *NotifySession) Run() {
	s.registry.Join(registry.NotifyGroup(s.userID), s)

	go s.writePump()
	s.readPump()
}

// Канал push-only: входящие кадры игнорируем, но читать надо,
// иначе не обрабатываются pong и close
func (s *NotifySession) readPump() {
	defer s.close()
	s.configureRead()

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
