package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/database"
)

const studentColumns = "id, name, kana_name, nickname, email, living_area, age, gender, remark, deleted"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindStudent fetches a student by ID. Absence is reported as sql.ErrNoRows.
func (r *StudentRepository) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	var student models.Student
	if err := database.Conn(ctx, r.db).GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListStudents returns students in registration order.
func (r *StudentRepository) ListStudents(ctx context.Context, excludeDeleted bool) ([]models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students"
	if excludeDeleted {
		query += " WHERE deleted = false"
	}
	query += " ORDER BY created_at, id"

	var students []models.Student
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// InsertStudent stores a new student and assigns its ID.
func (r *StudentRepository) InsertStudent(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	const query = `INSERT INTO students (` + studentColumns + `)
        VALUES (:id, :name, :kana_name, :nickname, :email, :living_area, :age, :gender, :remark, :deleted)`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// UpdateStudent persists the mutable profile fields. The deleted flag is
// never written here.
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET name = :name, kana_name = :kana_name, nickname = :nickname, email = :email,
        living_area = :living_area, age = :age, gender = :gender, remark = :remark WHERE id = :id`
	res, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

// MarkStudentDeleted flags a student as logically deleted.
func (r *StudentRepository) MarkStudentDeleted(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE students SET deleted = true WHERE id = ?")
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark student deleted: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps an update that touched no row to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
