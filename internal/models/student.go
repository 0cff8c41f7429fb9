package models

// Student is a learner. Deleted students are kept and flagged.
type Student struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	KanaName   string `db:"kana_name" json:"kana_name"`
	Nickname   string `db:"nickname" json:"nickname"`
	Email      string `db:"email" json:"email"`
	LivingArea string `db:"living_area" json:"living_area"`
	Age        int    `db:"age" json:"age"`
	Gender     string `db:"gender" json:"gender"`
	Remark     string `db:"remark" json:"remark"`
	Deleted    bool   `db:"deleted" json:"deleted"`
}

// StudentDetail is a student with the enrollments that belong to it.
type StudentDetail struct {
	Student     Student      `json:"student"`
	Enrollments []Enrollment `json:"enrollments"`
}

// StudentSearchFilter narrows the student detail listing.
type StudentSearchFilter struct {
	Status         *EnrollmentStatus
	IncludeDeleted bool
}

// StudentProfile holds the mutable student attributes.
type StudentProfile struct {
	Name       string `json:"name" validate:"required"`
	KanaName   string `json:"kana_name" validate:"required"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email" validate:"required,email"`
	LivingArea string `json:"living_area"`
	Age        int    `json:"age" validate:"gt=0"`
	Gender     string `json:"gender"`
	Remark     string `json:"remark"`
}

// Apply copies the profile onto s, leaving ID and Deleted untouched.
func (p StudentProfile) Apply(s *Student) {
	s.Name = p.Name
	s.KanaName = p.KanaName
	s.Nickname = p.Nickname
	s.Email = p.Email
	s.LivingArea = p.LivingArea
	s.Age = p.Age
	s.Gender = p.Gender
	s.Remark = p.Remark
}

// RegisterStudentRequest registers a student with a first course.
type RegisterStudentRequest struct {
	StudentProfile
	CourseID string `json:"course_id" validate:"required"`
}

// UpdateStudentRequest replaces the mutable attributes of a student.
type UpdateStudentRequest struct {
	StudentProfile
}

// DeleteResult reports the outcome of a logical delete.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
