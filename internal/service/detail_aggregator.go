package service

import "github.com/AijiY/StudentManagement/internal/models"

// JoinStudentsWithEnrollments groups enrollments under their student. Every
// student appears once, in input order, with its enrollments in input order.
// Enrollments whose student is not in the list are dropped.
func JoinStudentsWithEnrollments(students []models.Student, enrollments []models.Enrollment) []models.StudentDetail {
	byStudent := groupByStudent(enrollments)
	details := make([]models.StudentDetail, 0, len(students))
	for _, student := range students {
		owned := byStudent[student.ID]
		if owned == nil {
			owned = []models.Enrollment{}
		}
		details = append(details, models.StudentDetail{Student: student, Enrollments: owned})
	}
	return details
}

// JoinStudentsWithEnrollmentsFilteredByStatus keeps only enrollments that
// have a record in statuses, then groups them like JoinStudentsWithEnrollments.
// Students left without enrollments are omitted.
func JoinStudentsWithEnrollmentsFilteredByStatus(students []models.Student, enrollments []models.Enrollment, statuses []models.EnrollmentStatusRecord) []models.StudentDetail {
	keep := make(map[string]struct{}, len(statuses))
	for _, st := range statuses {
		keep[st.EnrollmentID] = struct{}{}
	}

	filtered := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if _, ok := keep[e.ID]; ok {
			filtered = append(filtered, e)
		}
	}

	byStudent := groupByStudent(filtered)
	details := make([]models.StudentDetail, 0, len(students))
	for _, student := range students {
		if owned := byStudent[student.ID]; len(owned) > 0 {
			details = append(details, models.StudentDetail{Student: student, Enrollments: owned})
		}
	}
	return details
}

func groupByStudent(enrollments []models.Enrollment) map[string][]models.Enrollment {
	grouped := make(map[string][]models.Enrollment)
	for _, e := range enrollments {
		grouped[e.StudentID] = append(grouped[e.StudentID], e)
	}
	return grouped
}
