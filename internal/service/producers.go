package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"elearning_platform/internal/domain"
)

// Producers - контракт CRUD-слоя: после коммита своей записи он зовет
// соответствующий метод с уже разрезолвленным списком получателей.
// Здесь ничего не вычисляется и не проверяется - тонкий адаптер
// поверх Dispatcher.Publish.
type Producers struct {
	dispatcher Dispatcher
}

func NewProducers(dispatcher Dispatcher) *Producers {
	return &Producers{dispatcher: dispatcher}
}

func (p *Producers) EnrollmentCreated(ctx context.Context, studentID uuid.UUID, studentName string, courseID uuid.UUID, courseTitle string, teacherID uuid.UUID) error {
	return p.dispatcher.Publish(ctx, domain.EnrollmentCreated{
		StudentID:   studentID,
		StudentName: studentName,
		CourseID:    courseID,
		CourseTitle: courseTitle,
		TeacherID:   teacherID,
	})
}

func (p *Producers) MaterialUploaded(ctx context.Context, courseID uuid.UUID, courseTitle, materialTitle string, recipientIDs []uuid.UUID) error {
	return p.dispatcher.Publish(ctx, domain.MaterialUploaded{
		CourseID:      courseID,
		CourseTitle:   courseTitle,
		MaterialTitle: materialTitle,
		RecipientIDs:  recipientIDs,
	})
}

func (p *Producers) BroadcastPosted(ctx context.Context, courseID uuid.UUID, courseTitle string, authorID uuid.UUID, title string, recipientIDs []uuid.UUID) error {
	return p.dispatcher.Publish(ctx, domain.BroadcastPosted{
		CourseID:     courseID,
		CourseTitle:  courseTitle,
		AuthorID:     authorID,
		Title:        title,
		RecipientIDs: recipientIDs,
	})
}

func (p *Producers) DeadlineCreated(ctx context.Context, courseID uuid.UUID, courseTitle string, teacherID uuid.UUID, title string, dueDate time.Time, recipientIDs []uuid.UUID) error {
	return p.dispatcher.Publish(ctx, domain.DeadlineCreated{
		CourseID:     courseID,
		CourseTitle:  courseTitle,
		TeacherID:    teacherID,
		Title:        title,
		DueDate:      dueDate,
		RecipientIDs: recipientIDs,
	})
}
