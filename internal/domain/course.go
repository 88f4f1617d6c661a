package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course - минимальный срез курса, который нужен движку событий:
// заголовок для текстов уведомлений и преподаватель как получатель.
// Полная схема курсов живет в CRUD-слое.
type Course struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	TeacherID uuid.UUID `json:"teacher_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
