package registry

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"elearning_platform/pkg/logger"
)

const fanoutChannelPrefix = "fanout:"

// redisBroadcaster переносит fan-out через Redis Pub/Sub, чтобы
// несколько процессов могли обслуживать сокеты: кадр публикуется
// в канал группы, каждый процесс доставляет его своим локальным сессиям.
// Контракт реестра (join/leave/membersOf) остается локальным.
type redisBroadcaster struct {
	rdb      *redis.Client
	registry Registry
	log      logger.Logger
	cancel   context.CancelFunc
}

func NewRedisBroadcaster(rdb *redis.Client, registry Registry, log logger.Logger) Broadcaster {
	ctx, cancel := context.WithCancel(context.Background())
	b := &redisBroadcaster{
		rdb:      rdb,
		registry: registry,
		log:      log,
		cancel:   cancel,
	}
	go b.subscribeLoop(ctx)
	return b
}

func (b *redisBroadcaster) Broadcast(ctx context.Context, groupKey string, frame []byte) error {
	return b.rdb.Publish(ctx, fanoutChannelPrefix+groupKey, frame).Err()
}

func (b *redisBroadcaster) subscribeLoop(ctx context.Context) {
	pubsub := b.rdb.PSubscribe(ctx, fanoutChannelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			groupKey := strings.TrimPrefix(msg.Channel, fanoutChannelPrefix)
			frame := []byte(msg.Payload)
			for _, session := range b.registry.MembersOf(groupKey) {
				if err := session.Send(frame); err != nil {
					b.log.Warn("Dropped frame for session", "group", groupKey, "error", err)
				}
			}
		}
	}
}

// Close останавливает цикл подписки
func (b *redisBroadcaster) Close() {
	b.cancel()
}
