package service

import (
	"context"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/repository"
	"elearning_platform/pkg/logger"
)

type ChatService interface {
	// History возвращает последние limit сообщений комнаты в порядке
	// от старых к новым - так их рисует клиент
	History(ctx context.Context, roomName string, limit int) ([]*domain.ChatMessage, error)
}

type chatService struct {
	chatRepo     repository.ChatRepository
	historyLimit int
	log          logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, historyLimit int, log logger.Logger) ChatService {
	return &chatService{
		chatRepo:     chatRepo,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (s *chatService) History(ctx context.Context, roomName string, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	// хранилище отдает от новых к старым, переворачиваем для отображения
	messages, err := s.chatRepo.GetRoomMessages(ctx, roomName, limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
