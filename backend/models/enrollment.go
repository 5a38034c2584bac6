package models

import "gorm.io/gorm"

// EnrollmentStatus is the state of a learner's relationship to a course.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment links a learner to a course. At most one row exists per
// (learner, course) pair: re-enrollment reactivates the existing row and
// withdrawal cancels it without deleting it, so history is retained.
type Enrollment struct {
	gorm.Model
	LearnerID uint             `gorm:"uniqueIndex:idx_enrollment_learner_course;not null"`
	CourseID  uint             `gorm:"uniqueIndex:idx_enrollment_learner_course;not null"`
	Status    EnrollmentStatus `gorm:"default:active"`
}
