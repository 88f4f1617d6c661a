package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"elearning_platform/internal/domain"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/repository"
	"elearning_platform/internal/ws"
	apperrors "elearning_platform/pkg/errors"
	"elearning_platform/pkg/logger"
)

// Dispatcher - единственная точка входа fan-out: продюсер коммитит свою
// запись и зовет Publish. Persist синхронный (строка существует до
// возврата), живой push - best-effort и никогда не откатывает persist.
type Dispatcher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type dispatcher struct {
	notificationRepo repository.NotificationRepository
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	courseRepo       repository.CourseRepository
	broadcaster      registry.Broadcaster
	log              logger.Logger
}

func NewDispatcher(
	notificationRepo repository.NotificationRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	broadcaster registry.Broadcaster,
	log logger.Logger,
) Dispatcher {
	return &dispatcher{
		notificationRepo: notificationRepo,
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		broadcaster:      broadcaster,
		log:              log,
	}
}

func (d *dispatcher) Publish(ctx context.Context, event domain.Event) error {
	switch ev := event.(type) {
	case domain.EnrollmentCreated:
		return d.publishEnrollment(ctx, ev)
	case domain.MaterialUploaded:
		return d.publishMaterial(ctx, ev)
	case domain.BroadcastPosted:
		return d.publishBroadcast(ctx, ev)
	case domain.DeadlineCreated:
		return d.publishDeadline(ctx, ev)
	case domain.ChatPosted:
		return d.publishChat(ctx, ev)
	default:
		return fmt.Errorf("unknown event %q", event.EventName())
	}
}

func (d *dispatcher) publishEnrollment(ctx context.Context, ev domain.EnrollmentCreated) error {
	title := d.courseTitle(ctx, ev.CourseID, ev.CourseTitle)
	message := fmt.Sprintf("%s has enrolled in %s", ev.StudentName, title)

	if err := d.persistNotification(ctx, ev.TeacherID, domain.NotificationEnrollment, message, ev.CourseID); err != nil {
		return err
	}
	d.pushNotification(ctx, ev.TeacherID, domain.NotificationEnrollment, message)
	return nil
}

func (d *dispatcher) publishMaterial(ctx context.Context, ev domain.MaterialUploaded) error {
	title := d.courseTitle(ctx, ev.CourseID, ev.CourseTitle)
	message := fmt.Sprintf("New material '%s' added to %s", ev.MaterialTitle, title)

	// материалы - только уведомления, сообщение в чат не создается
	var firstErr error
	for _, recipientID := range ev.RecipientIDs {
		if err := d.persistNotification(ctx, recipientID, domain.NotificationMaterial, message, ev.CourseID); err != nil {
			// уже записанные получатели сохраняют свои строки;
			// запоминаем первую ошибку и продолжаем остальных
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.pushNotification(ctx, recipientID, domain.NotificationMaterial, message)
	}
	return firstErr
}

func (d *dispatcher) publishBroadcast(ctx context.Context, ev domain.BroadcastPosted) error {
	title := d.courseTitle(ctx, ev.CourseID, ev.CourseTitle)
	message := fmt.Sprintf("New announcement in %s: %s", title, ev.Title)

	var firstErr error
	for _, recipientID := range ev.RecipientIDs {
		if err := d.persistNotification(ctx, recipientID, domain.NotificationGeneral, message, ev.CourseID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.pushNotification(ctx, recipientID, domain.NotificationGeneral, message)
	}

	// ровно одно сообщение в комнату курса, не по одному на получателя
	content := fmt.Sprintf("Announcement: %s", ev.Title)
	if err := d.postRoomMessage(ctx, ev.AuthorID, ev.CourseID.String(), content); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (d *dispatcher) publishDeadline(ctx context.Context, ev domain.DeadlineCreated) error {
	title := d.courseTitle(ctx, ev.CourseID, ev.CourseTitle)
	due := ev.DueDate.Format("2006-01-02 15:04")
	// сохраняемый и пушевый тексты различаются - так ведет себя фронтенд
	stored := fmt.Sprintf("NEW ASSIGNMENT: '%s' for %s. Due: %s", ev.Title, title, due)
	pushed := fmt.Sprintf("New Assignment in %s: %s. Check your dashboard.", title, ev.Title)

	var firstErr error
	for _, recipientID := range ev.RecipientIDs {
		if err := d.persistNotification(ctx, recipientID, domain.NotificationDeadline, stored, ev.CourseID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.pushNotification(ctx, recipientID, domain.NotificationDeadline, pushed)
	}

	content := fmt.Sprintf("🚨 NEW ASSIGNMENT POSTED: %s. Deadline: %s", ev.Title, due)
	if err := d.postRoomMessage(ctx, ev.TeacherID, ev.CourseID.String(), content); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// publishChat обрабатывает сообщение из живой сессии. Неизвестный
// отправитель - осознанная мягкость: сообщение уходит в комнату с
// присланным именем и синтетическим временем, но в историю не пишется.
func (d *dispatcher) publishChat(ctx context.Context, ev domain.ChatPosted) error {
	var (
		fullName  string
		createdAt time.Time
	)

	sender, err := d.userRepo.GetByUsername(ctx, ev.Username)
	switch {
	case err == nil:
		message := &domain.ChatMessage{
			SenderID:    sender.ID,
			RoomName:    ev.RoomName,
			MessageType: domain.MessageTypeUser,
			Content:     ev.Content,
			CreatedAt:   time.Now().UTC(),
		}
		if err := d.chatRepo.CreateMessage(ctx, message); err != nil {
			return err
		}
		fullName = sender.FullName()
		createdAt = message.CreatedAt
	case errors.Is(err, apperrors.ErrUserNotFound):
		// мягкость только для неизвестного имени; отказ хранилища -
		// отказ всей публикации
		d.log.Warn("Chat message from unknown username, using display fallback", "username", ev.Username, "room", ev.RoomName)
		fullName = ev.Username
		createdAt = time.Now().UTC()
	default:
		return err
	}

	d.pushChat(ctx, ev.RoomName, ws.ChatOutbound{
		Message:   ev.Content,
		Username:  ev.Username,
		FullName:  fullName,
		Timestamp: createdAt.Format(time.RFC3339),
	})
	return nil
}

// postRoomMessage сохраняет одно системное сообщение в комнате курса
// и рассылает его живым участникам
func (d *dispatcher) postRoomMessage(ctx context.Context, authorID uuid.UUID, room, content string) error {
	message := &domain.ChatMessage{
		SenderID:    authorID,
		RoomName:    room,
		MessageType: domain.MessageTypeSystem,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.chatRepo.CreateMessage(ctx, message); err != nil {
		return err
	}

	username := "system"
	fullName := "system"
	if author, err := d.userRepo.GetByID(ctx, authorID); err == nil {
		username = author.Username
		fullName = author.FullName()
	}

	d.pushChat(ctx, room, ws.ChatOutbound{
		Message:   content,
		Username:  username,
		FullName:  fullName,
		Timestamp: message.CreatedAt.Format(time.RFC3339),
	})
	return nil
}

func (d *dispatcher) persistNotification(ctx context.Context, recipientID uuid.UUID, kind, message string, courseID uuid.UUID) error {
	notification := &domain.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
		CourseID:    &courseID,
		CreatedAt:   time.Now().UTC(),
	}
	return d.notificationRepo.Create(ctx, notification)
}

func (d *dispatcher) pushNotification(ctx context.Context, recipientID uuid.UUID, kind, message string) {
	frame, err := json.Marshal(ws.NotificationOutbound{Type: kind, Message: message})
	if err != nil {
		d.log.Error("Failed to marshal notification frame", "error", err)
		return
	}
	if err := d.broadcaster.Broadcast(ctx, registry.NotifyGroup(recipientID), frame); err != nil {
		// ошибка транспорта невидима для триггернувшей записи
		d.log.Warn("Notification push failed", "recipient", recipientID, "error", err)
	}
}

func (d *dispatcher) pushChat(ctx context.Context, room string, outbound ws.ChatOutbound) {
	frame, err := json.Marshal(outbound)
	if err != nil {
		d.log.Error("Failed to marshal chat frame", "error", err)
		return
	}
	if err := d.broadcaster.Broadcast(ctx, registry.ChatGroup(room), frame); err != nil {
		d.log.Warn("Chat push failed", "room", room, "error", err)
	}
}

// courseTitle предпочитает заголовок, разрезолвленный продюсером;
// пустой - добираем из хранилища, в крайнем случае показываем id
func (d *dispatcher) courseTitle(ctx context.Context, courseID uuid.UUID, resolved string) string {
	if resolved != "" {
		return resolved
	}
	course, err := d.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		d.log.Warn("Failed to resolve course title", "course", courseID, "error", err)
		return courseID.String()
	}
	return course.Title
}
