package ws

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/registry"
	"elearning_platform/pkg/logger"
)

// Publisher - то, что сессии нужно от диспетчера
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// ChatSession обслуживает одно подключение к комнате чата.
// Анонимным разрешено подключаться и читать; личность проверяется
// только при отправке сообщения (см. резолв отправителя в диспетчере).
type ChatSession struct {
	*Client
	room      string
	publisher Publisher
}

func NewChatSession(conn *websocket.Conn, room string, reg registry.Registry, publisher Publisher, log logger.Logger) *ChatSession {
	return &ChatSession{
		Client:    newClient(conn, reg, log),
		room:      room,
		publisher: publisher,
	}
}

// Run блокируется до закрытия соединения
func (s *ChatSession) Run() {
	// вступаем в группу до старта насосов, чтобы не потерять
	// кадры, разосланные сразу после хендшейка
	s.registry.Join(registry.ChatGroup(s.room), s)

	go s.writePump()
	s.readPump()
}

func (s *ChatSession) readPump() {
	defer s.close()
	s.configureRead()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Chat connection closed unexpectedly", "room", s.room, "error", err)
			}
			return
		}

		var frame ChatInbound
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.Warn("Malformed chat frame", "room", s.room, "error", err)
			continue
		}
		// отсутствующее поле - дефект клиента: кадр отбрасываем,
		// соединение оставляем
		if frame.Message == "" || frame.Username == "" {
			s.log.Warn("Chat frame missing required field", "room", s.room)
			continue
		}

		event := domain.ChatPosted{
			RoomName: s.room,
			Username: frame.Username,
			Content:  frame.Message,
		}
		if err := s.publisher.Publish(context.Background(), event); err != nil {
			s.log.Error("Failed to publish chat message", "room", s.room, "error", err)
		}
	}
}
