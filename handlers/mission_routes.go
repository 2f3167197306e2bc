// handlers/mission_routes.go
package handlers

import (
	"strconv"

	"eco-quest-system/middleware"
	"eco-quest-system/models"
	"eco-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService) {
	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s/missions", middleware.UserContextMiddleware())

	securedGroup.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		filter := services.MissionFilter{
			Type:     c.Query("type"),
			Category: c.Query("category"),
			God:      c.Query("god"),
			Region:   c.Query("region"),
			Page:     page,
			Limit:    limit,
		}

		missions, total, err := missionService.ListMissions(userID, filter)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to list missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"missions": missions,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	})

	securedGroup.Post("/:missionId/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		progress, mission, err := missionService.Start(userID, c.Params("missionId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to start mission",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"progress": progress,
			"mission":  mission,
		})
	})

	securedGroup.Patch("/:missionId/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			Progress int `json:"progress"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		progress, err := missionService.UpdateProgress(userID, c.Params("missionId"), req.Progress)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to update progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	securedGroup.Post("/:missionId/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		progress, mission, err := missionService.Complete(userID, c.Params("missionId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to complete mission",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"progress": progress,
			"mission":  mission,
		})
	})

	securedGroup.Get("/:missionId/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		progress, err := missionService.GetProgress(userID, c.Params("missionId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin/missions", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/", func(c *fiber.Ctx) error {
		type Req struct {
			Title                     string  `json:"title"`
			Description               string  `json:"description"`
			Type                      string  `json:"type"`
			Category                  *string `json:"category"`
			God                       *string `json:"god"`
			Region                    *string `json:"region"`
			RewardAmount              int     `json:"reward_amount"`
			CorruptionLevel           int     `json:"corruption_level"`
			IsCorruptionMission       bool    `json:"is_corruption_mission"`
			UnlocksAfterMissionID     *string `json:"unlocks_after_mission_id"`
			RequiresCorruptionCleared bool    `json:"requires_corruption_cleared"`
			Requirements              *string `json:"requirements"`
			IsActive                  *bool   `json:"is_active"` // omitted = active
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "title is required",
			})
		}

		mission := models.Mission{
			Title:                     req.Title,
			Description:               req.Description,
			Type:                      req.Type,
			Category:                  req.Category,
			God:                       req.God,
			Region:                    req.Region,
			RewardAmount:              req.RewardAmount,
			CorruptionLevel:           req.CorruptionLevel,
			IsCorruptionMission:       req.IsCorruptionMission,
			UnlocksAfterMissionID:     req.UnlocksAfterMissionID,
			RequiresCorruptionCleared: req.RequiresCorruptionCleared,
			Requirements:              req.Requirements,
			IsActive:                  req.IsActive == nil || *req.IsActive,
		}

		if err := missionService.CreateMission(&mission); err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to create mission",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(mission)
	})
}
