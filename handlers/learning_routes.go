// handlers/learning_routes.go
package handlers

import (
	"eco-quest-system/middleware"
	"eco-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLearningRoutes(app *fiber.App, learningService *services.LearningService) {
	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s/learning", middleware.UserContextMiddleware())

	securedGroup.Get("/lessons", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		lessons, err := learningService.ListLessons(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to list lessons",
				"cause": err.Error(),
			})
		}
		return c.JSON(lessons)
	})

	securedGroup.Get("/lessons/:lessonId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		lesson, err := learningService.GetLesson(userID, c.Params("lessonId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get lesson",
				"cause": err.Error(),
			})
		}
		return c.JSON(lesson)
	})

	securedGroup.Post("/lessons/:lessonId/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := learningService.CompleteLesson(userID, c.Params("lessonId")); err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to complete lesson",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "lesson completed"})
	})

	securedGroup.Get("/lessons/:lessonId/quiz", func(c *fiber.Ctx) error {
		quiz, err := learningService.GetQuiz(c.Params("lessonId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get quiz",
				"cause": err.Error(),
			})
		}
		return c.JSON(quiz)
	})

	securedGroup.Post("/lessons/:lessonId/quiz", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			Answers []int `json:"answers"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := learningService.SubmitQuiz(userID, c.Params("lessonId"), req.Answers)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to submit quiz",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	securedGroup.Get("/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		summary, err := learningService.GetSummary(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get learning progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(summary)
	})
}
