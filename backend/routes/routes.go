package routes

import (
	"log"
	"routinet/backend/config"
	"routinet/backend/controllers"
	"routinet/backend/middleware"
	"routinet/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	notifier := services.NewNotifier(db, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/:username", authMiddleware, userController.GetPublicProfile)

	// Course catalog routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/mine", coursesController.MyCourses)
	courses.Get("/reconcile", coursesController.ReconcileOwnership)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/", coursesController.CreateCourse)
	courses.Put("/:id", coursesController.UpdateCourse)
	courses.Delete("/:id", coursesController.DeleteCourse)

	// Module and resource routes
	modulesController := controllers.NewModulesController(db, cfg)
	courses.Post("/:id/modules", modulesController.CreateModule)
	courses.Put("/:id/modules/:moduleId", modulesController.UpdateModule)
	courses.Delete("/:id/modules/:moduleId", modulesController.DeleteModule)
	courses.Post("/:id/modules/:moduleId/resources", modulesController.AddResource)

	// Enrollment routes
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg, notifier)
	courses.Post("/:id/enroll", enrollmentsController.Enroll)
	courses.Post("/:id/withdraw", enrollmentsController.Withdraw)

	// Assignment and submission routes
	assignmentsController := controllers.NewAssignmentsController(db, cfg, notifier)
	courses.Post("/:id/assignments", assignmentsController.CreateAssignment)
	assignments := app.Group("/api/assignments", authMiddleware)
	assignments.Get("/mine", assignmentsController.MyAssignments)
	assignments.Post("/:id/submissions", assignmentsController.Submit)
	assignments.Get("/:id/submissions", assignmentsController.ListSubmissions)
	app.Put("/api/submissions/:id/grade", authMiddleware, assignmentsController.Grade)

	// Event calendar routes
	eventsController := controllers.NewEventsController(db, cfg)
	events := app.Group("/api/events", authMiddleware)
	events.Get("/", eventsController.ListEvents)
	events.Post("/", eventsController.CreateEvent)
	events.Put("/:id", eventsController.UpdateEvent)
	events.Delete("/:id", eventsController.DeleteEvent)

	// Messaging routes
	messagingController := controllers.NewMessagingController(db, cfg, notifier)
	app.Get("/api/messages", authMiddleware, messagingController.ListMessages)
	app.Post("/api/messages", authMiddleware, messagingController.SendMessage)
	app.Get("/api/notifications", authMiddleware, messagingController.ListNotifications)
}
