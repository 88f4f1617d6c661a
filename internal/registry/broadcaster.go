package registry

import (
	"context"

	"elearning_platform/pkg/logger"
)

// Broadcaster доставляет кадр всем живым участникам группы.
// Доставка best-effort: ошибка отправки одной сессии логируется
// и не мешает остальным.
type Broadcaster interface {
	Broadcast(ctx context.Context, groupKey string, frame []byte) error
	// Close останавливает фоновые циклы доставки; для локальной
	// рассылки - no-op
	Close()
}

type localBroadcaster struct {
	registry Registry
	log      logger.Logger
}

// NewLocalBroadcaster - рассылка внутри одного процесса.
// Для нескольких процессов нужен NewRedisBroadcaster.
func NewLocalBroadcaster(registry Registry, log logger.Logger) Broadcaster {
	return &localBroadcaster{registry: registry, log: log}
}

func (b *localBroadcaster) Broadcast(_ context.Context, groupKey string, frame []byte) error {
	for _, session := range b.registry.MembersOf(groupKey) {
		if err := session.Send(frame); err != nil {
			// сессия закрылась или не успевает читать - пропускаем,
			// клиент догонит историю при переподключении
			b.log.Warn("Dropped frame for session", "group", groupKey, "error", err)
		}
	}
	return nil
}

func (b *localBroadcaster) Close() {}
