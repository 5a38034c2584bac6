package controllers_test

import (
	"routinet/backend/models"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestSendMessage(t *testing.T) {
	sender, senderToken := createUser(t, models.RoleLearner)
	recipient, _ := createUser(t, models.RoleInstructor)

	// No messages to yourself.
	resp, _ := doRequest(t, "POST", "/api/messages", senderToken, map[string]interface{}{
		"recipient_id": sender.ID,
		"body":         "note to self",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doRequest(t, "POST", "/api/messages", senderToken, map[string]interface{}{
		"recipient_id": recipient.ID,
		"body":         "hello",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var message models.Message
	err := db.Where("sender_id = ? AND recipient_id = ?", sender.ID, recipient.ID).First(&message).Error
	assert.NoError(t, err)
	assert.Equal(t, "hello", message.Body)

	// The recipient got a message notification.
	var notifications int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", recipient.ID, models.NotifyMessage).
		Count(&notifications)
	assert.EqualValues(t, 1, notifications)
}

func TestListNotificationsMarksRead(t *testing.T) {
	user, token := createUser(t, models.RoleInstructor)
	db.Create(&models.Notification{UserID: user.ID, Title: "One", Kind: models.NotifyCourse})
	db.Create(&models.Notification{UserID: user.ID, Title: "Two", Kind: models.NotifyGrade})

	resp, _ := doRequest(t, "GET", "/api/notifications", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Count(&unread)
	assert.EqualValues(t, 0, unread)
}
