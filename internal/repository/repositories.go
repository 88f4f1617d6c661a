package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"elearning_platform/pkg/logger"
)

type Repositories struct {
	User         UserRepository
	Course       CourseRepository
	Chat         ChatRepository
	Notification NotificationRepository
	RateLimit    RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db, log),
		Course:       NewCourseRepository(db, log),
		Chat:         NewChatRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		RateLimit:    NewRateLimitRepository(rdb, log),
	}
}
