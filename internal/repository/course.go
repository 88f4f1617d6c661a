package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elearning_platform/internal/domain"
	apperrors "elearning_platform/pkg/errors"
	"elearning_platform/pkg/logger"
)

// CourseRepository - только чтение: курсы создает CRUD-слой,
// движку нужны заголовок и преподаватель для текстов уведомлений.
type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
}

type courseRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewCourseRepository(db *pgxpool.Pool, log logger.Logger) CourseRepository {
	return &courseRepository{db: db, log: log}
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	query := `
		SELECT id, title, teacher_id, is_active, created_at
		FROM courses
		WHERE id = $1
	`

	course := &domain.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.Title, &course.TeacherID,
		&course.IsActive, &course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		r.log.Error("Failed to get course", "error", err, "id", id)
		return nil, err
	}

	return course, nil
}
