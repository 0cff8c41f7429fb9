package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/database"
)

// StatusRepository manages the lifecycle records of enrollments.
type StatusRepository struct {
	db *sqlx.DB
}

// NewStatusRepository constructs a StatusRepository.
func NewStatusRepository(db *sqlx.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// FindStatus fetches a status record by its own ID.
func (r *StatusRepository) FindStatus(ctx context.Context, id string) (*models.EnrollmentStatusRecord, error) {
	query := r.db.Rebind("SELECT id, enrollment_id, status FROM enrollment_statuses WHERE id = ?")
	var record models.EnrollmentStatusRecord
	if err := database.Conn(ctx, r.db).GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindStatusByEnrollment fetches the status record of an enrollment.
func (r *StatusRepository) FindStatusByEnrollment(ctx context.Context, enrollmentID string) (*models.EnrollmentStatusRecord, error) {
	query := r.db.Rebind("SELECT id, enrollment_id, status FROM enrollment_statuses WHERE enrollment_id = ?")
	var record models.EnrollmentStatusRecord
	if err := database.Conn(ctx, r.db).GetContext(ctx, &record, query, enrollmentID); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListStatuses returns status records, restricted to one stage when status is
// set. Rows still holding the legacy code of that stage are included.
func (r *StatusRepository) ListStatuses(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentStatusRecord, error) {
	query := "SELECT id, enrollment_id, status FROM enrollment_statuses"
	var args []interface{}
	if status != nil {
		codes := status.StoredCodes()
		if len(codes) == 0 {
			return []models.EnrollmentStatusRecord{}, nil
		}
		var err error
		query, args, err = sqlx.In(query+" WHERE status IN (?)", codes)
		if err != nil {
			return nil, fmt.Errorf("build status filter: %w", err)
		}
	}
	query += " ORDER BY created_at, id"

	var records []models.EnrollmentStatusRecord
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list enrollment statuses: %w", err)
	}
	return records, nil
}

// InsertStatus stores a status record and assigns its ID.
func (r *StatusRepository) InsertStatus(ctx context.Context, record *models.EnrollmentStatusRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	const query = `INSERT INTO enrollment_statuses (id, enrollment_id, status) VALUES (:id, :enrollment_id, :status)`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert enrollment status: %w", err)
	}
	return nil
}

// UpdateStatusInProgress moves a tentative enrollment to in progress.
func (r *StatusRepository) UpdateStatusInProgress(ctx context.Context, enrollmentID string) error {
	return r.advance(ctx, enrollmentID, models.EnrollmentStatusTentative, models.EnrollmentStatusInProgress)
}

// UpdateStatusCompleted moves an in progress enrollment to completed.
func (r *StatusRepository) UpdateStatusCompleted(ctx context.Context, enrollmentID string) error {
	return r.advance(ctx, enrollmentID, models.EnrollmentStatusInProgress, models.EnrollmentStatusCompleted)
}

// advance only matches a row still in the expected stage, under its current
// or legacy code, so a concurrent writer that moved it first yields
// sql.ErrNoRows. The new stage is always written with its current code.
func (r *StatusRepository) advance(ctx context.Context, enrollmentID string, from, to models.EnrollmentStatus) error {
	query, args, err := sqlx.In("UPDATE enrollment_statuses SET status = ? WHERE enrollment_id = ? AND status IN (?)",
		to, enrollmentID, from.StoredCodes())
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update enrollment status to %s: %w", to, err)
	}
	return requireAffected(res)
}
