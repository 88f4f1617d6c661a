package service

import (
	"elearning_platform/internal/config"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/repository"
	"elearning_platform/pkg/logger"
)

type Services struct {
	Auth         AuthService
	Chat         ChatService
	Notification NotificationService
	RateLimit    RateLimitService
	Dispatcher   Dispatcher
	Producers    *Producers
}

func NewServices(repos *repository.Repositories, broadcaster registry.Broadcaster, cfg *config.Config, log logger.Logger) *Services {
	dispatcher := NewDispatcher(repos.Notification, repos.Chat, repos.User, repos.Course, broadcaster, log)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg.JWT, log),
		Chat:         NewChatService(repos.Chat, cfg.Chat.HistoryLimit, log),
		Notification: NewNotificationService(repos.Notification, log),
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
		Dispatcher:   dispatcher,
		Producers:    NewProducers(dispatcher),
	}
}
