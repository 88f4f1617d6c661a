package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          int64      `json:"id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Kind        string     `json:"kind"`
	Message     string     `json:"message"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	NotificationEnrollment = "enrollment"
	NotificationMaterial   = "material"
	NotificationFeedback   = "feedback"
	NotificationSubmission = "submission"
	NotificationGeneral    = "general"
	NotificationSystem     = "system"
	NotificationDeadline   = "deadline"
)
