package models

import "time"

const (
	// ProvisioningBuffer separates registration from the provisional start date.
	ProvisioningBuffer = 7 * 24 * time.Hour
	// CourseDuration is the span between start date and end due date.
	CourseDuration = 16 * 7 * 24 * time.Hour
)

// Enrollment ties a student to a course with a scheduled window.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDueDate time.Time `db:"end_due_date" json:"end_due_date"`
	CourseName string    `db:"-" json:"course_name,omitempty"`
}

// Schedule sets the start date and derives the end due date from it.
func (e *Enrollment) Schedule(start time.Time) {
	e.StartDate = start
	e.EndDueDate = start.Add(CourseDuration)
}

// EnrollmentStatusRecord stores the current lifecycle stage of one enrollment.
type EnrollmentStatusRecord struct {
	ID           string           `db:"id" json:"id"`
	EnrollmentID string           `db:"enrollment_id" json:"enrollment_id"`
	Status       EnrollmentStatus `db:"status" json:"status"`
}

// EnrollmentWithStatus is an enrollment joined with its status.
type EnrollmentWithStatus struct {
	Enrollment
	Status EnrollmentStatus `json:"status"`
}
