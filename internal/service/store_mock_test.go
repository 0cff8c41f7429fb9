package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

// memStore is an in-memory EntityStore. WithinTx snapshots every table and
// restores it when fn fails.
type memStore struct {
	students    []models.Student
	courses     []models.Course
	enrollments []models.Enrollment
	statuses    []models.EnrollmentStatusRecord

	seq             int
	studentLists    int
	commits         int
	rollbacks       int
	advanceErr      error
	insertStatusErr error
	onListStudents  func()
}

func newMemStore(courses ...models.Course) *memStore {
	return &memStore{courses: courses}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	students := append([]models.Student(nil), m.students...)
	courses := append([]models.Course(nil), m.courses...)
	enrollments := append([]models.Enrollment(nil), m.enrollments...)
	statuses := append([]models.EnrollmentStatusRecord(nil), m.statuses...)

	if err := fn(ctx); err != nil {
		m.students, m.courses, m.enrollments, m.statuses = students, courses, enrollments, statuses
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memStore) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ListStudents(ctx context.Context, excludeDeleted bool) ([]models.Student, error) {
	m.studentLists++
	if hook := m.onListStudents; hook != nil {
		m.onListStudents = nil
		hook()
	}
	var out []models.Student
	for _, s := range m.students {
		if excludeDeleted && s.Deleted {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) InsertStudent(ctx context.Context, student *models.Student) error {
	student.ID = m.nextID("s")
	m.students = append(m.students, *student)
	return nil
}

func (m *memStore) UpdateStudent(ctx context.Context, student *models.Student) error {
	for i, s := range m.students {
		if s.ID == student.ID {
			deleted := s.Deleted
			m.students[i] = *student
			m.students[i].Deleted = deleted
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) MarkStudentDeleted(ctx context.Context, id string) error {
	for i, s := range m.students {
		if s.ID == id {
			m.students[i].Deleted = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) FindCourse(ctx context.Context, id string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	return append([]models.Course(nil), m.courses...), nil
}

func (m *memStore) InsertCourse(ctx context.Context, course *models.Course) error {
	course.ID = m.nextID("c")
	m.courses = append(m.courses, *course)
	return nil
}

func (m *memStore) FindEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return append([]models.Enrollment(nil), m.enrollments...), nil
}

func (m *memStore) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = m.nextID("e")
	stored := *enrollment
	stored.CourseName = ""
	m.enrollments = append(m.enrollments, stored)
	return nil
}

func (m *memStore) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	for i, e := range m.enrollments {
		if e.ID == enrollment.ID {
			m.enrollments[i].StartDate = enrollment.StartDate
			m.enrollments[i].EndDueDate = enrollment.EndDueDate
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) FindStatus(ctx context.Context, id string) (*models.EnrollmentStatusRecord, error) {
	for _, st := range m.statuses {
		if st.ID == id {
			found := st
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) FindStatusByEnrollment(ctx context.Context, enrollmentID string) (*models.EnrollmentStatusRecord, error) {
	for _, st := range m.statuses {
		if st.EnrollmentID == enrollmentID {
			found := st
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ListStatuses(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentStatusRecord, error) {
	var out []models.EnrollmentStatusRecord
	for _, st := range m.statuses {
		if status == nil || st.Status == *status {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStore) InsertStatus(ctx context.Context, record *models.EnrollmentStatusRecord) error {
	if m.insertStatusErr != nil {
		return m.insertStatusErr
	}
	record.ID = m.nextID("st")
	m.statuses = append(m.statuses, *record)
	return nil
}

func (m *memStore) UpdateStatusInProgress(ctx context.Context, enrollmentID string) error {
	return m.advance(enrollmentID, models.EnrollmentStatusTentative, models.EnrollmentStatusInProgress)
}

func (m *memStore) UpdateStatusCompleted(ctx context.Context, enrollmentID string) error {
	return m.advance(enrollmentID, models.EnrollmentStatusInProgress, models.EnrollmentStatusCompleted)
}

func (m *memStore) advance(enrollmentID string, from, to models.EnrollmentStatus) error {
	if m.advanceErr != nil {
		return m.advanceErr
	}
	for i, st := range m.statuses {
		if st.EnrollmentID == enrollmentID && st.Status == from {
			m.statuses[i].Status = to
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) setStatus(enrollmentID string, status models.EnrollmentStatus) {
	for i, st := range m.statuses {
		if st.EnrollmentID == enrollmentID {
			m.statuses[i].Status = status
		}
	}
}

// memCache is a JSON backed CacheRepository.
type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	return nil
}

var fixedNow = func() time.Time { return time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC) }

var javaCourse = models.Course{ID: "c-java", Name: "Java", Price: 300000}

func profile(name string) models.StudentProfile {
	return models.StudentProfile{Name: name, KanaName: "カナ", Email: name + "@example.com", Age: 20}
}

var errNoRowsForTest = sql.ErrNoRows
