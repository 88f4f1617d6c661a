package domain

import (
	"time"

	"github.com/google/uuid"
)

// События домена, которые CRUD-слой публикует в диспетчер после коммита
// собственной записи. Продюсер сам резолвит список получателей и
// отображаемые строки (имена, заголовки) - диспетчер им доверяет и не
// делает повторных выборок во время fan-out.

type Event interface {
	EventName() string
}

type EnrollmentCreated struct {
	StudentID   uuid.UUID
	StudentName string
	CourseID    uuid.UUID
	CourseTitle string
	TeacherID   uuid.UUID
}

func (EnrollmentCreated) EventName() string { return "enrollment_created" }

type MaterialUploaded struct {
	CourseID      uuid.UUID
	CourseTitle   string
	MaterialTitle string
	RecipientIDs  []uuid.UUID
}

func (MaterialUploaded) EventName() string { return "material_uploaded" }

type BroadcastPosted struct {
	CourseID     uuid.UUID
	CourseTitle  string
	AuthorID     uuid.UUID
	Title        string
	RecipientIDs []uuid.UUID
}

func (BroadcastPosted) EventName() string { return "broadcast_posted" }

type DeadlineCreated struct {
	CourseID     uuid.UUID
	CourseTitle  string
	TeacherID    uuid.UUID
	Title        string
	DueDate      time.Time
	RecipientIDs []uuid.UUID
}

func (DeadlineCreated) EventName() string { return "deadline_created" }

// ChatPosted приходит не из CRUD-слоя, а из живой чат-сессии.
// Username - как прислал клиент; отправитель резолвится при обработке.
type ChatPosted struct {
	RoomName string
	Username string
	Content  string
}

func (ChatPosted) EventName() string { return "chat_posted" }
