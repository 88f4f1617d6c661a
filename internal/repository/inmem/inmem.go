// Package inmem - хранилище в памяти с теми же контрактами, что и
// Postgres-репозитории. Используется в тестах и для локальной разработки
// без БД; процесс-рестарт теряет данные.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"elearning_platform/internal/domain"
	apperrors "elearning_platform/pkg/errors"
)

type ChatRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages []*domain.ChatMessage
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{nextID: 1}
}

func (r *ChatRepository) CreateMessage(_ context.Context, message *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = r.nextID
	r.nextID++
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *ChatRepository) GetRoomMessages(_ context.Context, roomName string, limit int) ([]*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.ChatMessage
	for _, m := range r.messages {
		if m.RoomName == roomName {
			copied := *m
			result = append(result, &copied)
		}
	}

	// от новых к старым, как Postgres-вариант
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type NotificationRepository struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{nextID: 1}
}

func (r *NotificationRepository) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = r.nextID
	r.nextID++
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *NotificationRepository) GetByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, notificationID int64, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUserRepository(users ...*domain.User) *UserRepository {
	r := &UserRepository{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

func (r *UserRepository) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[user.ID] = &stored
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type CourseRepository struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*domain.Course
}

func NewCourseRepository(courses ...*domain.Course) *CourseRepository {
	r := &CourseRepository{courses: make(map[uuid.UUID]*domain.Course)}
	for _, c := range courses {
		stored := *c
		r.courses[c.ID] = &stored
	}
	return r
}

func (r *CourseRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}
