package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is a piece of homework attached to a course and optionally to
// one of its modules.
type Assignment struct {
	gorm.Model
	CourseID    uint  `gorm:"index;not null"`
	ModuleID    *uint `gorm:"index"`
	Title       string
	Description string
	FileURL     string
	DueAt       time.Time    `gorm:"not null"`
	MaxScore    float64      `gorm:"default:20"`
	Submissions []Submission `gorm:"constraint:OnDelete:CASCADE"`
}

// IsLate reports whether the deadline has passed at the given instant.
// Computed at read time, never stored.
func (a *Assignment) IsLate(now time.Time) bool {
	return now.After(a.DueAt)
}

// Submission is a learner's deliverable for an assignment. At most one row
// exists per (assignment, learner) pair: resubmitting overwrites the content
// fields in place. SubmittedAt is set on creation and never reset, so the
// first submission time always wins.
type Submission struct {
	gorm.Model
	AssignmentID      uint `gorm:"uniqueIndex:idx_submission_assignment_learner;not null"`
	LearnerID         uint `gorm:"uniqueIndex:idx_submission_assignment_learner;not null"`
	Content           string
	Comment           string
	SubmittedAt       time.Time `gorm:"not null"`
	Score             *float64
	InstructorComment string
	GradedAt          *time.Time
}

// IsLate reports whether the submission landed after the assignment
// deadline. Independent of Assignment.IsLate: a submission made before the
// deadline stays on time even when viewed after it.
func (s *Submission) IsLate(a *Assignment) bool {
	return s.SubmittedAt.After(a.DueAt)
}

// Graded reports whether an instructor has scored the submission.
func (s *Submission) Graded() bool {
	return s.GradedAt != nil
}
