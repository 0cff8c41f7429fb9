package models

// Course is an offering students enroll in.
type Course struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Price int    `db:"price" json:"price"`
}

// RegisterCourseRequest creates a course.
type RegisterCourseRequest struct {
	Name  string `json:"name" validate:"required"`
	Price int    `json:"price" validate:"gt=0"`
}
