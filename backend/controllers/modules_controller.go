package controllers

import (
	"errors"
	"routinet/backend/authz"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ModulesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewModulesController(db *gorm.DB, cfg *config.Config) *ModulesController {
	return &ModulesController{DB: db, Cfg: cfg}
}

func (mc *ModulesController) loadOwnedCourse(c *fiber.Ctx) (*models.Course, error) {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := mc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}

	if !authz.CanManageCourseContent(user.ID, &course) {
		return nil, utils.Forbidden(c, "You don't have permission to manage this course")
	}

	return &course, nil
}

func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	course, err := mc.loadOwnedCourse(c)
	if course == nil {
		return err
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Position    int    `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}

	if err := mc.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Module created",
		"module":  module,
	})
}

func (mc *ModulesController) UpdateModule(c *fiber.Ctx) error {
	course, err := mc.loadOwnedCourse(c)
	if course == nil {
		return err
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.Where("id = ? AND course_id = ?", moduleID, course.ID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Position    *int   `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		module.Title = input.Title
	}
	if input.Description != "" {
		module.Description = input.Description
	}
	if input.Position != nil {
		module.Position = *input.Position
	}

	if err := mc.DB.Save(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}

	return c.JSON(fiber.Map{
		"message": "Module updated",
		"module":  module,
	})
}

func (mc *ModulesController) DeleteModule(c *fiber.Ctx) error {
	course, err := mc.loadOwnedCourse(c)
	if course == nil {
		return err
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.Where("id = ? AND course_id = ?", moduleID, course.ID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := mc.DB.Select("Resources").Delete(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete module")
	}

	return c.JSON(fiber.Map{
		"message": "Module deleted",
	})
}

func (mc *ModulesController) AddResource(c *fiber.Ctx) error {
	course, err := mc.loadOwnedCourse(c)
	if course == nil {
		return err
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.Where("id = ? AND course_id = ?", moduleID, course.ID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input struct {
		Name        string `json:"name" validate:"required"`
		Kind        string `json:"kind" validate:"required"`
		URL         string `json:"url"`
		FileURL     string `json:"file_url"`
		Description string `json:"description"`
		Position    int    `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	resource := models.Resource{
		ModuleID:    module.ID,
		Name:        input.Name,
		Kind:        models.ResourceKind(input.Kind),
		URL:         input.URL,
		FileURL:     input.FileURL,
		Description: input.Description,
		Position:    input.Position,
	}

	if err := resource.Validate(); err != nil {
		return utils.ValidationError(c, map[string]string{"kind": err.Error()})
	}

	if err := mc.DB.Create(&resource).Error; err != nil {
		return utils.InternalServerError(c, "Could not create resource")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Resource created",
		"resource": resource,
	})
}
