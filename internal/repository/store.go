package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AijiY/StudentManagement/pkg/database"
)

// Store groups the entity repositories behind one transaction boundary.
type Store struct {
	*StudentRepository
	*CourseRepository
	*EnrollmentRepository
	*StatusRepository

	db *sqlx.DB
}

// NewStore wires every repository to db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		StudentRepository:    NewStudentRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		StatusRepository:     NewStatusRepository(db),
		db:                   db,
	}
}

// WithinTx runs fn in one transaction. Repository calls made with the
// context passed to fn take part in it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithinTx(ctx, s.db, fn)
}

// Ping checks database reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
