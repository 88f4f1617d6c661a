package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/service"
	"elearning_platform/internal/ws"
	apperrors "elearning_platform/pkg/errors"
	"elearning_platform/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	authService service.AuthService
	dispatcher  service.Dispatcher
	registry    registry.Registry
	log         logger.Logger
}

func NewWebSocketHandler(authService service.AuthService, dispatcher service.Dispatcher, reg registry.Registry, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		authService: authService,
		dispatcher:  dispatcher,
		registry:    reg,
		log:         log,
	}
}

// HandleChat - подключение к комнате чата. Анонимные допускаются:
// комната открыта на чтение, личность проверяется на отправке.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	room := c.Param("room")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade chat connection", "error", err)
		return
	}

	session := ws.NewChatSession(conn, room, h.registry, h.dispatcher, h.log)
	session.Run()
}

// HandleNotifications - персональный канал уведомлений. Жесткий гейт:
// без валидного токена соединение закрывается сразу, ни в одну группу
// сессия не вступает.
func (h *WebSocketHandler) HandleNotifications(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade notification connection", "error", err)
		return
	}

	user, err := h.authenticate(c)
	if err != nil {
		h.log.Warn("Rejected anonymous notification connection", "remote", c.ClientIP())
		deadline := time.Now().Add(10 * time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication required"), deadline)
		conn.Close()
		return
	}

	session := ws.NewNotifySession(conn, user.ID, h.registry, h.log)
	session.Run()
}

// Токен приходит либо query-параметром (браузерный WebSocket API не
// умеет заголовки), либо обычным bearer
func (h *WebSocketHandler) authenticate(c *gin.Context) (*domain.User, error) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return h.authService.ValidateToken(c.Request.Context(), token)
}
