// handlers/map_routes.go
package handlers

import (
	"eco-quest-system/middleware"
	"eco-quest-system/models"
	"eco-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMapRoutes(app *fiber.App, mapService *services.MapService, godService *services.GodService) {
	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s/map", middleware.UserContextMiddleware())

	securedGroup.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		state, err := mapService.GetMapState(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get map state",
				"cause": err.Error(),
			})
		}
		return c.JSON(state)
	})

	securedGroup.Get("/regions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		regions, err := mapService.ListRegions(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to list regions",
				"cause": err.Error(),
			})
		}
		return c.JSON(regions)
	})

	securedGroup.Post("/regions/:regionId/clear", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			Amount int `json:"amount"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Amount < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "a positive amount is required",
			})
		}

		region, err := mapService.ClearRegionCorruption(userID, c.Params("regionId"), req.Amount)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to clear corruption",
				"cause": err.Error(),
			})
		}
		return c.JSON(region)
	})

	// Public deity catalog
	app.Get("/gods", func(c *fiber.Ctx) error {
		return c.JSON(models.Gods)
	})

	godGroup := app.Group("/s/gods", middleware.UserContextMiddleware())

	godGroup.Get("/selected", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		god, err := godService.GetSelectedGod(userID)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get selected god",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"selected_god": god})
	})

	godGroup.Post("/select", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			GodID string `json:"god_id"`
			Force bool   `json:"force"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		god, err := godService.SelectGod(userID, req.GodID, req.Force)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to select god",
				"cause": err.Error(),
			})
		}
		return c.JSON(god)
	})
}
