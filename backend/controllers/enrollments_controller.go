package controllers

import (
	"errors"
	"fmt"
	"routinet/backend/authz"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/services"
	"routinet/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier services.Notifier
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config, notifier services.Notifier) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg, Notifier: notifier}
}

// Enroll implements the enrollment state machine. The target set is
// published courses only, so enrolling in a draft or archived course reads
// as not found. Outcomes:
//   - no existing row: create active, notify the course owner
//   - existing active row: no-op, "already_active"
//   - existing row in any other status: reactivate, "reactivated"
//
// A concurrent duplicate insert surfaces as gorm.ErrDuplicatedKey and is
// retried as the update path.
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !authz.CanEnroll(user.Profile.Role) {
		return utils.Forbidden(c, "Only learners can enroll in courses")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ec.DB.Where("status = ?", models.CoursePublished).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrollment models.Enrollment
	err = ec.DB.Where("learner_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}

		enrollment = models.Enrollment{
			LearnerID: user.ID,
			CourseID:  course.ID,
			Status:    models.EnrollmentActive,
		}
		if err := ec.DB.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against a concurrent enroll; fall through to
				// the existing-row path.
				if err := ec.DB.Where("learner_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error; err != nil {
					return utils.InternalServerError(c, "Could not query database")
				}
				return ec.reactivate(c, user, &course, &enrollment)
			}
			return utils.InternalServerError(c, "Could not create enrollment")
		}

		ec.Notifier.Notify(course.OwnerID, models.NotifyEnrollment,
			"New enrollment",
			fmt.Sprintf("%s enrolled in your course '%s'", user.FullName(), course.Title),
			fmt.Sprintf("/courses/%d", course.ID),
		)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":     "created",
			"enrollment": enrollment,
		})
	}

	return ec.reactivate(c, user, &course, &enrollment)
}

func (ec *EnrollmentsController) reactivate(c *fiber.Ctx, user *models.User, course *models.Course, enrollment *models.Enrollment) error {
	if enrollment.Status == models.EnrollmentActive {
		return c.JSON(fiber.Map{
			"status":     "already_active",
			"enrollment": enrollment,
		})
	}

	enrollment.Status = models.EnrollmentActive
	if err := ec.DB.Save(enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not update enrollment")
	}

	if ec.Cfg.NotifyOnReenroll {
		ec.Notifier.Notify(course.OwnerID, models.NotifyEnrollment,
			"Enrollment reactivated",
			fmt.Sprintf("%s re-enrolled in your course '%s'", user.FullName(), course.Title),
			fmt.Sprintf("/courses/%d", course.ID),
		)
	}

	return c.JSON(fiber.Map{
		"status":     "reactivated",
		"enrollment": enrollment,
	})
}

// Withdraw cancels an active enrollment. The row is kept so enrollment
// history survives; withdrawing from a non-active enrollment is a conflict.
func (ec *EnrollmentsController) Withdraw(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var enrollment models.Enrollment
	if err := ec.DB.Where("learner_id = ? AND course_id = ?", user.ID, courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Enrollment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if enrollment.Status != models.EnrollmentActive {
		return utils.Conflict(c, "Enrollment is not active")
	}

	enrollment.Status = models.EnrollmentCancelled
	if err := ec.DB.Save(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not update enrollment")
	}

	return c.JSON(fiber.Map{
		"status":     "cancelled",
		"enrollment": enrollment,
	})
}
