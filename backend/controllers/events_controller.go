package controllers

import (
	"errors"
	"routinet/backend/authz"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EventsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEventsController(db *gorm.DB, cfg *config.Config) *EventsController {
	return &EventsController{DB: db, Cfg: cfg}
}

// ListEvents returns the course calendar, newest first. Readable by any
// authenticated user; mutations are admin only.
func (ec *EventsController) ListEvents(c *fiber.Ctx) error {
	var events []models.Event
	if err := ec.DB.Order("starts_at DESC").Find(&events).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(events)
}

type EventInput struct {
	CourseID    uint      `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Kind        string    `json:"kind" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Location    string    `json:"location"`
}

func (ec *EventsController) CreateEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !authz.CanManageEvents(user.Profile.Role) {
		return utils.Forbidden(c, "Only administrators can manage events")
	}

	var input EventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	kind := models.EventKind(input.Kind)
	if !kind.Valid() {
		return utils.ValidationError(c, map[string]string{"kind": "must be exam, session, conference or other"})
	}

	var course models.Course
	if err := ec.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	event := models.Event{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		Kind:        kind,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Location:    input.Location,
	}

	if err := ec.DB.Create(&event).Error; err != nil {
		return utils.InternalServerError(c, "Could not create event")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created",
		"event":   event,
	})
}

func (ec *EventsController) UpdateEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !authz.CanManageEvents(user.Profile.Role) {
		return utils.Forbidden(c, "Only administrators can manage events")
	}

	eventID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid event ID")
	}

	var event models.Event
	if err := ec.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Event not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Kind        string     `json:"kind"`
		StartsAt    *time.Time `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at"`
		Location    string     `json:"location"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		event.Title = input.Title
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if input.Kind != "" {
		kind := models.EventKind(input.Kind)
		if !kind.Valid() {
			return utils.ValidationError(c, map[string]string{"kind": "must be exam, session, conference or other"})
		}
		event.Kind = kind
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if input.Location != "" {
		event.Location = input.Location
	}

	if err := ec.DB.Save(&event).Error; err != nil {
		return utils.InternalServerError(c, "Could not update event")
	}

	return c.JSON(fiber.Map{
		"message": "Event updated",
		"event":   event,
	})
}

func (ec *EventsController) DeleteEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !authz.CanManageEvents(user.Profile.Role) {
		return utils.Forbidden(c, "Only administrators can manage events")
	}

	eventID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid event ID")
	}

	var event models.Event
	if err := ec.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Event not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := ec.DB.Delete(&event).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete event")
	}

	return c.JSON(fiber.Map{
		"message": "Event deleted",
	})
}
