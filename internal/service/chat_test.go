package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/repository/inmem"
)

func TestHistoryReturnsOldestFirst(t *testing.T) {
	repo := inmem.NewChatRepository()
	svc := NewChatService(repo, 50, noopLogger{})
	sender := uuid.New()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateMessage(context.Background(), &domain.ChatMessage{
			SenderID:    sender,
			RoomName:    "5",
			MessageType: domain.MessageTypeUser,
			Content:     fmt.Sprintf("msg-%d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	messages, err := svc.History(context.Background(), "5", 50)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), m.Content)
	}
}

func TestHistoryTruncatesToLimitKeepingNewest(t *testing.T) {
	repo := inmem.NewChatRepository()
	svc := NewChatService(repo, 50, noopLogger{})
	sender := uuid.New()

	base := time.Now().UTC()
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.CreateMessage(context.Background(), &domain.ChatMessage{
			SenderID:    sender,
			RoomName:    "5",
			MessageType: domain.MessageTypeUser,
			Content:     fmt.Sprintf("msg-%d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	messages, err := svc.History(context.Background(), "5", 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	// остаются три самых новых, по-прежнему от старых к новым
	assert.Equal(t, "msg-7", messages[0].Content)
	assert.Equal(t, "msg-9", messages[2].Content)
}

func TestHistoryAppliesDefaultCap(t *testing.T) {
	repo := inmem.NewChatRepository()
	svc := NewChatService(repo, 2, noopLogger{})
	sender := uuid.New()

	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.CreateMessage(context.Background(), &domain.ChatMessage{
			SenderID:  sender,
			RoomName:  "general",
			Content:   fmt.Sprintf("msg-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	// limit<=0 и limit>cap оба прижимаются к настроенному пределу
	for _, limit := range []int{0, -1, 100} {
		messages, err := svc.History(context.Background(), "general", limit)
		require.NoError(t, err)
		assert.Len(t, messages, 2, "limit %d", limit)
	}
}

func TestHistoryEmptyRoom(t *testing.T) {
	repo := inmem.NewChatRepository()
	svc := NewChatService(repo, 50, noopLogger{})

	messages, err := svc.History(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
