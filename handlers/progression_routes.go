// handlers/progression_routes.go
package handlers

import (
	"strconv"

	"eco-quest-system/middleware"
	"eco-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, userService *services.UserService, progressionService *services.ProgressionService, badgeService *services.BadgeService, rewardService *services.RewardService) {
	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s/user", middleware.UserContextMiddleware())

	securedGroup.Get("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		profile, err := userService.GetProfile(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get profile",
				"cause": err.Error(),
			})
		}

		coins, err := rewardService.TotalCoins(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to sum coins",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"profile": profile,
			"coins":   coins,
		})
	})

	securedGroup.Patch("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.UpdateProfile(userID, req.Username, req.Email)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to update profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(user)
	})

	securedGroup.Put("/device", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			DeviceID   *string        `json:"device_id"`
			DeviceInfo map[string]any `json:"device_info"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.UpdateDeviceInfo(userID, req.DeviceID, req.DeviceInfo)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to update device info",
				"cause": err.Error(),
			})
		}
		return c.JSON(user)
	})

	securedGroup.Get("/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badges, err := badgeService.GetUserBadges(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	securedGroup.Post("/badges/:badgeId/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badge, err := badgeService.ClaimBadge(userID, c.Params("badgeId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to claim badge",
				"cause": err.Error(),
			})
		}
		return c.JSON(badge)
	})

	securedGroup.Get("/rewards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		rewards, total, err := rewardService.ListRewards(userID, page, limit, c.Query("type"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list rewards",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"rewards": rewards,
			"total":   total,
			"page":    page,
			"limit":   limit,
		})
	})

	// Public catalog
	app.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.ListBadges()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id"`
			XP     int    `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.XP < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and a positive xp are required",
			})
		}
		if req.Reason == "" {
			req.Reason = "admin_grant"
		}

		user, err := progressionService.AwardXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}

		// granted XP can satisfy badge thresholds
		if _, err := badgeService.EvaluateAndAward(req.UserID); err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "badge evaluation failed after grant",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"xp":      user.XP,
			"level":   user.Level,
		})
	})
}
