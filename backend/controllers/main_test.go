package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"routinet/backend/config"
	"routinet/backend/models"
	"routinet/backend/routes"
	"routinet/backend/utils"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

var userSeq atomic.Uint64

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func setup() {
	cfg = &config.Config{
		JWTSecret:        "testsecret",
		InstructorCode:   "TEACH",
		AdminCode:        "ADMIN",
		NotifyOnReenroll: false,
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Course{},
		&models.Module{},
		&models.Resource{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Event{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.InitLogger())
}

// createUser inserts a user with the given role directly and returns it
// with a valid token for the Authorization header.
func createUser(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()

	n := userSeq.Add(1)
	user := models.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		FirstName:    fmt.Sprintf("First%d", n),
		LastName:     fmt.Sprintf("Last%d", n),
		Profile:      models.Profile{Role: role},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return &user, token
}

func createCourse(t *testing.T, owner *models.User, status models.CourseStatus) *models.Course {
	t.Helper()

	course := models.Course{
		Title:   fmt.Sprintf("Course %d", userSeq.Add(1)),
		OwnerID: owner.ID,
		Status:  status,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return &course
}

func createAssignment(t *testing.T, course *models.Course, dueAt time.Time) *models.Assignment {
	t.Helper()

	assignment := models.Assignment{
		CourseID: course.ID,
		Title:    fmt.Sprintf("Assignment %d", userSeq.Add(1)),
		DueAt:    dueAt,
		MaxScore: 20,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return &assignment
}

func enrollActive(t *testing.T, learner *models.User, course *models.Course) {
	t.Helper()

	enrollment := models.Enrollment{
		LearnerID: learner.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
}

// doRequest runs a JSON request through the app and decodes the response
// body into a generic map.
func doRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var result map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		json.Unmarshal(raw, &result)
	}
	return resp, result
}
