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
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssignmentsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier services.Notifier
}

func NewAssignmentsController(db *gorm.DB, cfg *config.Config, notifier services.Notifier) *AssignmentsController {
	return &AssignmentsController{DB: db, Cfg: cfg, Notifier: notifier}
}

type AssignmentInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	ModuleID    *uint     `json:"module_id"`
	FileURL     string    `json:"file_url"`
	DueAt       time.Time `json:"due_at" validate:"required"`
	MaxScore    *float64  `json:"max_score"`
}

// CreateAssignment attaches homework to a course. Owner only; the due
// timestamp is required and the maximum score must be non-negative,
// defaulting to 20.
func (ac *AssignmentsController) CreateAssignment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanManageCourseContent(user.ID, &course) {
		return utils.Forbidden(c, "You don't have permission to create assignments for this course")
	}

	var input AssignmentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	maxScore := 20.0
	if input.MaxScore != nil {
		if *input.MaxScore < 0 {
			return utils.ValidationError(c, map[string]string{"max_score": "must be non-negative"})
		}
		maxScore = *input.MaxScore
	}

	if input.ModuleID != nil {
		var module models.Module
		if err := ac.DB.Where("id = ? AND course_id = ?", *input.ModuleID, course.ID).First(&module).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ValidationError(c, map[string]string{"module_id": "module does not belong to this course"})
			}
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	assignment := models.Assignment{
		CourseID:    course.ID,
		ModuleID:    input.ModuleID,
		Title:       input.Title,
		Description: input.Description,
		FileURL:     input.FileURL,
		DueAt:       input.DueAt,
		MaxScore:    maxScore,
	}

	if err := ac.DB.Create(&assignment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create assignment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment created",
		"assignment": assignment,
	})
}

// MyAssignments lists the homework relevant to the actor: for learners the
// assignments of courses they are actively enrolled in, for instructors the
// assignments of courses they own.
func (ac *AssignmentsController) MyAssignments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	now := time.Now()

	var assignments []models.Assignment
	switch user.Profile.Role {
	case models.RoleLearner:
		if err := ac.DB.
			Joins("JOIN enrollments ON enrollments.course_id = assignments.course_id").
			Where("enrollments.learner_id = ? AND enrollments.status = ? AND enrollments.deleted_at IS NULL",
				user.ID, models.EnrollmentActive).
			Order("assignments.due_at").
			Find(&assignments).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	case models.RoleInstructor:
		if err := ac.DB.
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.owner_id = ? AND courses.deleted_at IS NULL", user.ID).
			Order("assignments.created_at DESC").
			Find(&assignments).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	default:
		return c.JSON([]fiber.Map{})
	}

	result := make([]fiber.Map, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		entry := fiber.Map{
			"id":        a.ID,
			"course_id": a.CourseID,
			"module_id": a.ModuleID,
			"title":     a.Title,
			"due_at":    a.DueAt,
			"max_score": a.MaxScore,
			"is_late":   a.IsLate(now),
		}
		if user.Profile.Role == models.RoleLearner {
			var submission models.Submission
			err := ac.DB.Where("assignment_id = ? AND learner_id = ?", a.ID, user.ID).First(&submission).Error
			entry["submitted"] = err == nil
		}
		result = append(result, entry)
	}

	return c.JSON(result)
}

// Submit records a learner's deliverable. Requires an active enrollment in
// the assignment's course. The first submission creates the row and fixes
// SubmittedAt; later submissions overwrite the content fields on the same
// row and the original timestamp stands. A duplicate-key race on the create
// path is converted into the update path.
func (ac *AssignmentsController) Submit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrolled int64
	ac.DB.Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ? AND status = ?", user.ID, assignment.CourseID, models.EnrollmentActive).
		Count(&enrolled)

	if !authz.CanSubmit(user.Profile.Role, enrolled > 0) {
		return utils.Forbidden(c, "You must be actively enrolled to submit")
	}

	var input struct {
		Content string `json:"content" validate:"required"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var submission models.Submission
	err = ac.DB.Where("assignment_id = ? AND learner_id = ?", assignment.ID, user.ID).First(&submission).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}

		submission = models.Submission{
			AssignmentID: assignment.ID,
			LearnerID:    user.ID,
			Content:      input.Content,
			Comment:      input.Comment,
			SubmittedAt:  time.Now(),
		}
		if err := ac.DB.Create(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := ac.DB.Where("assignment_id = ? AND learner_id = ?", assignment.ID, user.ID).First(&submission).Error; err != nil {
					return utils.InternalServerError(c, "Could not query database")
				}
				return ac.resubmit(c, &assignment, &submission, input.Content, input.Comment)
			}
			return utils.InternalServerError(c, "Could not create submission")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Assignment submitted",
			"submission": ac.submissionView(&assignment, &submission),
		})
	}

	return ac.resubmit(c, &assignment, &submission, input.Content, input.Comment)
}

func (ac *AssignmentsController) resubmit(c *fiber.Ctx, assignment *models.Assignment, submission *models.Submission, content, comment string) error {
	submission.Content = content
	submission.Comment = comment

	if err := ac.DB.Save(submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not update submission")
	}

	return c.JSON(fiber.Map{
		"message":    "Submission updated",
		"submission": ac.submissionView(assignment, submission),
	})
}

func (ac *AssignmentsController) submissionView(assignment *models.Assignment, submission *models.Submission) fiber.Map {
	return fiber.Map{
		"id":                 submission.ID,
		"assignment_id":      submission.AssignmentID,
		"learner_id":         submission.LearnerID,
		"content":            submission.Content,
		"comment":            submission.Comment,
		"submitted_at":       submission.SubmittedAt,
		"is_late":            submission.IsLate(assignment),
		"score":              submission.Score,
		"instructor_comment": submission.InstructorComment,
		"graded_at":          submission.GradedAt,
	}
}

// ListSubmissions returns every submission for an assignment. Owner only.
func (ac *AssignmentsController) ListSubmissions(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := ac.DB.First(&course, assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanGrade(user.ID, &course) {
		return utils.Forbidden(c, "You don't have permission to view these submissions")
	}

	var submissions []models.Submission
	if err := ac.DB.Where("assignment_id = ?", assignment.ID).Order("submitted_at").Find(&submissions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(submissions))
	for i := range submissions {
		result = append(result, ac.submissionView(&assignment, &submissions[i]))
	}

	return c.JSON(result)
}

// Grade sets the score and instructor comment on a submission. Owner of the
// parent course only; the score must land in [0, assignment.MaxScore].
// Re-grading simply overwrites score, comment and grading timestamp, and
// the learner is notified each time.
func (ac *AssignmentsController) Grade(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid submission ID")
	}

	var submission models.Submission
	if err := ac.DB.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Submission not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, submission.AssignmentID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := ac.DB.First(&course, assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanGrade(user.ID, &course) {
		return utils.Forbidden(c, "You don't have permission to grade this submission")
	}

	var input struct {
		Score   *float64 `json:"score" validate:"required"`
		Comment string   `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if *input.Score < 0 || *input.Score > assignment.MaxScore {
		return utils.ValidationError(c, map[string]string{
			"score": fmt.Sprintf("must be between 0 and %g", assignment.MaxScore),
		})
	}

	now := time.Now()
	submission.Score = input.Score
	submission.InstructorComment = input.Comment
	submission.GradedAt = &now

	if err := ac.DB.Save(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not save grade")
	}

	ac.Notifier.Notify(submission.LearnerID, models.NotifyGrade,
		"Assignment graded",
		fmt.Sprintf("Your submission for '%s' was graded %g/%g", assignment.Title, *input.Score, assignment.MaxScore),
		fmt.Sprintf("/courses/%d", assignment.CourseID),
	)

	return c.JSON(fiber.Map{
		"message":    "Submission graded",
		"submission": ac.submissionView(&assignment, &submission),
	})
}
