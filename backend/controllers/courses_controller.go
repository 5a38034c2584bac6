package controllers

import (
	"errors"
	"routinet/backend/authz"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// ListCourses returns the published catalog, optionally filtered by a free
// text query over title, description and owner name.
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Course{}).
		Preload("Owner").
		Where("status = ?", models.CoursePublished)

	if q := c.Query("q"); q != "" {
		// Compared on lower() so the match is case-insensitive on every
		// driver; plain LIKE is case-sensitive under postgres.
		like := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("JOIN users ON users.id = courses.owner_id").
			Where(
				cc.DB.Where("lower(courses.title) LIKE ?", like).
					Or("lower(courses.description) LIKE ?", like).
					Or("lower(users.first_name) LIKE ?", like).
					Or("lower(users.last_name) LIKE ?", like),
			)
	}

	var courses []models.Course
	if err := query.Order("courses.created_at DESC").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		result = append(result, cc.courseSummary(&courses[i]))
	}

	return c.JSON(result)
}

func (cc *CoursesController) courseSummary(course *models.Course) fiber.Map {
	return fiber.Map{
		"id":               course.ID,
		"title":            course.Title,
		"description":      course.Description,
		"status":           course.Status,
		"owner_id":         course.OwnerID,
		"owner_name":       course.Owner.FullName(),
		"image_url":        course.ImageURL,
		"start_date":       course.StartDate,
		"end_date":         course.EndDate,
		"enrollment_count": cc.activeEnrollmentCount(course.ID),
		"module_count":     cc.moduleCount(course.ID),
	}
}

// Derived attributes, computed on read and never stored.
func (cc *CoursesController) activeEnrollmentCount(courseID uint) int64 {
	var n int64
	cc.DB.Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&n)
	return n
}

func (cc *CoursesController) moduleCount(courseID uint) int64 {
	var n int64
	cc.DB.Model(&models.Module{}).Where("course_id = ?", courseID).Count(&n)
	return n
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Owner").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, created_at")
		}).
		Preload("Modules.Resources", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, created_at")
		}).
		Preload("Assignments").
		First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	isOwner := course.OwnerID == user.ID
	enrolled := false
	if user.Profile.Role == models.RoleLearner {
		var n int64
		cc.DB.Model(&models.Enrollment{}).
			Where("learner_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.EnrollmentActive).
			Count(&n)
		enrolled = n > 0
	}

	now := time.Now()
	assignments := make([]fiber.Map, 0, len(course.Assignments))
	for i := range course.Assignments {
		a := &course.Assignments[i]
		assignments = append(assignments, fiber.Map{
			"id":        a.ID,
			"title":     a.Title,
			"module_id": a.ModuleID,
			"due_at":    a.DueAt,
			"max_score": a.MaxScore,
			"is_late":   a.IsLate(now),
		})
	}

	return c.JSON(fiber.Map{
		"course":      cc.courseSummary(&course),
		"modules":     course.Modules,
		"assignments": assignments,
		"is_owner":    isOwner,
		"is_enrolled": enrolled,
	})
}

type CourseInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	FileURL     string     `json:"file_url"`
	ImageURL    string     `json:"image_url"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !authz.CanCreateCourse(user.Profile.Role) {
		return utils.Forbidden(c, "Only instructors can create courses")
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	status := models.CourseDraft
	if input.Status != "" {
		status = models.CourseStatus(input.Status)
		if !status.Valid() {
			return utils.ValidationError(c, map[string]string{"status": "must be draft, published or archived"})
		}
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     user.ID,
		Status:      status,
		FileURL:     input.FileURL,
		ImageURL:    input.ImageURL,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanUpdateCourse(user.ID, &course) {
		return utils.Forbidden(c, "You don't have permission to edit this course")
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Status != "" {
		status := models.CourseStatus(input.Status)
		if !status.Valid() {
			return utils.ValidationError(c, map[string]string{"status": "must be draft, published or archived"})
		}
		course.Status = status
	}
	if input.FileURL != "" {
		course.FileURL = input.FileURL
	}
	if input.ImageURL != "" {
		course.ImageURL = input.ImageURL
	}
	if input.StartDate != nil {
		course.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		course.EndDate = input.EndDate
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanDeleteCourse(user.ID, user.Profile.Role, &course) {
		return utils.Forbidden(c, "You don't have permission to delete this course")
	}

	// Select-based deletes only reach direct associations, so the
	// grandchildren (resources under modules, submissions under
	// assignments) go explicitly, all in one transaction.
	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&models.Module{}).Where("course_id = ?", course.ID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.Resource{}).Error; err != nil {
				return err
			}
		}

		var assignmentIDs []uint
		if err := tx.Model(&models.Assignment{}).Where("course_id = ?", course.ID).Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&models.Submission{}).Error; err != nil {
				return err
			}
		}

		for _, children := range []interface{}{
			&models.Module{}, &models.Assignment{}, &models.Event{}, &models.Enrollment{},
		} {
			if err := tx.Where("course_id = ?", course.ID).Delete(children).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&course).Error
	}); err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted",
	})
}

// MyCourses resolves the actor's courses. Learners get the courses they are
// actively enrolled in; instructors get the courses they own, through the
// ownership key.
func (cc *CoursesController) MyCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var courses []models.Course
	switch user.Profile.Role {
	case models.RoleLearner:
		if err := cc.DB.Preload("Owner").
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.learner_id = ? AND enrollments.status = ? AND enrollments.deleted_at IS NULL",
				user.ID, models.EnrollmentActive).
			Find(&courses).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	case models.RoleInstructor:
		if err := cc.DB.Preload("Owner").
			Where("owner_id = ?", user.ID).
			Find(&courses).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	default:
		return utils.Forbidden(c, "No course list for this role")
	}

	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		result = append(result, cc.courseSummary(&courses[i]))
	}
	return c.JSON(result)
}

// ReconcileOwnership lists courses whose stored owner display name matches
// the acting instructor's normalized name. It exists to surface rows whose
// ownership key drifted from the name data; the ownership key remains the
// primary lookup everywhere else.
func (cc *CoursesController) ReconcileOwnership(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user.Profile.Role != models.RoleInstructor {
		return utils.Forbidden(c, "Only instructors can reconcile ownership")
	}

	var courses []models.Course
	if err := cc.DB.Preload("Owner").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	actorName := models.NormalizeName(user.FullName())
	matches := make([]fiber.Map, 0)
	for i := range courses {
		course := &courses[i]
		if models.NormalizeName(course.Owner.FullName()) != actorName {
			continue
		}
		matches = append(matches, fiber.Map{
			"id":           course.ID,
			"title":        course.Title,
			"owner_id":     course.OwnerID,
			"owned_by_key": course.OwnerID == user.ID,
		})
	}

	return c.JSON(fiber.Map{
		"matches": matches,
	})
}
