package controllers

import (
	"errors"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	return c.JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"full_name":  user.FullName(),
		"role":       user.Profile.Role,
		"phone":      user.Profile.Phone,
		"birth_date": user.Profile.BirthDate,
		"photo_url":  user.Profile.PhotoURL,
		"biography":  user.Profile.Biography,
	})
}

// UpdateProfile updates contact and biographical fields. The role is not an
// accepted field: it is immutable after registration.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		Email     string     `json:"email"`
		Phone     string     `json:"phone"`
		BirthDate *time.Time `json:"birth_date"`
		PhotoURL  string     `json:"photo_url"`
		Biography string     `json:"biography"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		user.Profile.Phone = input.Phone
	}
	if input.BirthDate != nil {
		user.Profile.BirthDate = input.BirthDate
	}
	if input.PhotoURL != "" {
		user.Profile.PhotoURL = input.PhotoURL
	}
	if input.Biography != "" {
		user.Profile.Biography = input.Biography
	}

	if err := uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return tx.Save(&user.Profile).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Email already in use")
		}
		return utils.InternalServerError(c, "Could not update profile")
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
	})
}

func (uc *UserController) GetPublicProfile(c *fiber.Ctx) error {
	var user models.User
	if err := uc.DB.Preload("Profile").Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"username":  user.Username,
		"full_name": user.FullName(),
		"role":      user.Profile.Role,
		"photo_url": user.Profile.PhotoURL,
		"biography": user.Profile.Biography,
	})
}
