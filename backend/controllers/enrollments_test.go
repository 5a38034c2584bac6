package controllers_test

import (
	"fmt"
	"routinet/backend/models"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEnrollTwiceKeepsOneRow(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	learner, token := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CoursePublished)
	path := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	resp, result := doRequest(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", result["status"])

	// Owner got notified about the first enrollment.
	var notifications int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", instructor.ID, models.NotifyEnrollment).
		Count(&notifications)
	assert.EqualValues(t, 1, notifications)

	resp, result = doRequest(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "already_active", result["status"])

	var rows int64
	db.Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestEnrollDraftCourseIsNotFound(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	_, token := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CourseDraft)
	path := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	resp, _ := doRequest(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Publish, then the same enrollment goes through and notifies the owner.
	db.Model(course).Update("status", models.CoursePublished)

	resp, result := doRequest(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", result["status"])

	var notifications int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", instructor.ID, models.NotifyEnrollment).
		Count(&notifications)
	assert.EqualValues(t, 1, notifications)
}

func TestEnrollRequiresLearnerRole(t *testing.T) {
	owner, _ := createUser(t, models.RoleInstructor)
	_, instructorToken := createUser(t, models.RoleInstructor)
	course := createCourse(t, owner, models.CoursePublished)

	resp, _ := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), instructorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWithdrawAndReenroll(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	learner, token := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CoursePublished)
	enrollPath := fmt.Sprintf("/api/courses/%d/enroll", course.ID)
	withdrawPath := fmt.Sprintf("/api/courses/%d/withdraw", course.ID)

	doRequest(t, "POST", enrollPath, token, nil)

	resp, result := doRequest(t, "POST", withdrawPath, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", result["status"])

	// The row is kept, only its status changes.
	var enrollment models.Enrollment
	db.Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).First(&enrollment)
	assert.Equal(t, models.EnrollmentCancelled, enrollment.Status)

	// Withdrawing again is a conflict: only active enrollments can withdraw.
	resp, _ = doRequest(t, "POST", withdrawPath, token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Re-enrolling reactivates the existing row without a new notification
	// (NotifyOnReenroll is off in the test config).
	resp, result = doRequest(t, "POST", enrollPath, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "reactivated", result["status"])

	var rows int64
	db.Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Count(&rows)
	assert.EqualValues(t, 1, rows)

	var notifications int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", instructor.ID, models.NotifyEnrollment).
		Count(&notifications)
	assert.EqualValues(t, 1, notifications)
}

// A duplicate insert on the (learner, course) unique index must come back
// as gorm.ErrDuplicatedKey so handlers can convert it into the update path.
func TestDuplicateEnrollmentInsertTranslatesToDuplicatedKey(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	learner, _ := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CoursePublished)
	enrollActive(t, learner, course)

	err := db.Create(&models.Enrollment{
		LearnerID: learner.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentActive,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEnrollLosingInsertRaceReactivatesExistingRow(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	learner, token := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CoursePublished)

	// Sneak a cancelled row in between the handler's lookup and its insert,
	// so the insert hits the unique index like a concurrent enroll would.
	raced := false
	db.Callback().Create().Before("gorm:create").Register("enroll_race", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Enrollment); ok && !raced {
			raced = true
			db.Exec(
				"INSERT INTO enrollments (created_at, updated_at, learner_id, course_id, status) VALUES (?, ?, ?, ?, ?)",
				time.Now(), time.Now(), learner.ID, course.ID, models.EnrollmentCancelled,
			)
		}
	})
	defer db.Callback().Create().Remove("enroll_race")

	resp, result := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), token, nil)
	assert.True(t, raced)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "reactivated", result["status"])

	var rows int64
	db.Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestWithdrawWithoutEnrollmentIsNotFound(t *testing.T) {
	instructor, _ := createUser(t, models.RoleInstructor)
	_, token := createUser(t, models.RoleLearner)
	course := createCourse(t, instructor, models.CoursePublished)

	resp, _ := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/withdraw", course.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
