package handler

import (
	"elearning_platform/internal/config"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/service"
	"elearning_platform/pkg/logger"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	WebSocket    *WebSocketHandler
}

func NewHandlers(services *service.Services, reg registry.Registry, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(cfg),
		Auth:         NewAuthHandler(services.Auth, log),
		Chat:         NewChatHandler(services.Chat, log),
		Notification: NewNotificationHandler(services.Notification, log),
		WebSocket:    NewWebSocketHandler(services.Auth, services.Dispatcher, reg, log),
	}
}
