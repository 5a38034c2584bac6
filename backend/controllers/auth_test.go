package controllers_test

import (
	"fmt"
	"routinet/backend/models"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	n := userSeq.Add(1)
	resp, result := doRequest(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": fmt.Sprintf("reg%d", n),
		"email":    fmt.Sprintf("reg%d@example.com", n),
		"password": "password123",
		"role":     "learner",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, result["token"])

	userID := uint(result["user"].(map[string]interface{})["id"].(float64))

	// The profile exists and carries the role; no identity without one.
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLearner, profile.Role)
}

func TestRegisterInstructorRequiresCode(t *testing.T) {
	n := userSeq.Add(1)
	body := map[string]interface{}{
		"username": fmt.Sprintf("teach%d", n),
		"email":    fmt.Sprintf("teach%d@example.com", n),
		"password": "password123",
		"role":     "instructor",
	}

	resp, _ := doRequest(t, "POST", "/api/auth/register", "", body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body["registration_code"] = "TEACH"
	resp, result := doRequest(t, "POST", "/api/auth/register", "", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "instructor", result["user"].(map[string]interface{})["role"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	n := userSeq.Add(1)
	resp, _ := doRequest(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": fmt.Sprintf("bad%d", n),
		"email":    fmt.Sprintf("bad%d@example.com", n),
		"password": "password123",
		"role":     "superuser",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	n := userSeq.Add(1)
	username := fmt.Sprintf("login%d", n)
	doRequest(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    fmt.Sprintf("login%d@example.com", n),
		"password": "password123",
		"role":     "learner",
	})

	resp, result := doRequest(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])

	resp, _ = doRequest(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": username,
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfileUpdateRejectsTakenEmail(t *testing.T) {
	existing, _ := createUser(t, models.RoleLearner)
	_, token := createUser(t, models.RoleLearner)

	resp, _ := doRequest(t, "PUT", "/api/user/profile", token, map[string]interface{}{
		"email": existing.Email,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestProfileUpdateCannotChangeRole(t *testing.T) {
	user, token := createUser(t, models.RoleLearner)

	resp, _ := doRequest(t, "PUT", "/api/user/profile", token, map[string]interface{}{
		"biography": "I study things",
		"role":      "administrator",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.Profile
	db.Where("user_id = ?", user.ID).First(&profile)
	assert.Equal(t, models.RoleLearner, profile.Role)
	assert.Equal(t, "I study things", profile.Biography)
}
