package controllers

import (
	"errors"
	"fmt"
	"routinet/backend/config"
	"routinet/backend/middleware"
	"routinet/backend/models"
	"routinet/backend/services"
	"routinet/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MessagingController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier services.Notifier
}

func NewMessagingController(db *gorm.DB, cfg *config.Config, notifier services.Notifier) *MessagingController {
	return &MessagingController{DB: db, Cfg: cfg, Notifier: notifier}
}

// ListMessages returns the actor's inbox and sent mail.
func (mc *MessagingController) ListMessages(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var received, sent []models.Message
	if err := mc.DB.Where("recipient_id = ?", user.ID).Order("created_at DESC").Find(&received).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := mc.DB.Where("sender_id = ?", user.ID).Order("created_at DESC").Find(&sent).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"received": received,
		"sent":     sent,
	})
}

// SendMessage delivers internal mail. Users cannot message themselves.
func (mc *MessagingController) SendMessage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		RecipientID uint   `json:"recipient_id" validate:"required"`
		Body        string `json:"body" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if input.RecipientID == user.ID {
		return utils.ValidationError(c, map[string]string{"recipient_id": "cannot send a message to yourself"})
	}

	var recipient models.User
	if err := mc.DB.First(&recipient, input.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Recipient not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	message := models.Message{
		SenderID:    user.ID,
		RecipientID: recipient.ID,
		Body:        input.Body,
	}

	if err := mc.DB.Create(&message).Error; err != nil {
		return utils.InternalServerError(c, "Could not send message")
	}

	mc.Notifier.Notify(recipient.ID, models.NotifyMessage,
		"New message",
		fmt.Sprintf("%s sent you a message", user.FullName()),
		"/messages",
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent",
	})
}

// ListNotifications returns the actor's notifications, newest first, and
// marks the unread ones read.
func (mc *MessagingController) ListNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var notifications []models.Notification
	if err := mc.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := mc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error; err != nil {
		return utils.InternalServerError(c, "Could not update notifications")
	}

	return c.JSON(notifications)
}
