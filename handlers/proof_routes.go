// handlers/proof_routes.go
package handlers

import (
	"eco-quest-system/middleware"
	"eco-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProofRoutes(app *fiber.App, proofService *services.ProofService) {
	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s/proofs", middleware.UserContextMiddleware())

	securedGroup.Post("/upload-url", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		type Req struct {
			MissionProgressID string `json:"mission_progress_id"`
			Type              string `json:"type"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.MissionProgressID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "mission_progress_id is required",
			})
		}
		if req.Type != "photo" && req.Type != "video" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "type must be photo or video",
			})
		}

		grant, err := proofService.CreateUploadURL(userID, req.MissionProgressID, req.Type)
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to create upload URL",
				"cause": err.Error(),
			})
		}
		return c.JSON(grant)
	})

	securedGroup.Post("/:proofId/verify", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		report, err := proofService.Verify(userID, c.Params("proofId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to verify proof",
				"cause": err.Error(),
			})
		}
		return c.JSON(report)
	})

	securedGroup.Get("/:proofId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		proof, mission, err := proofService.GetProof(userID, c.Params("proofId"))
		if err != nil {
			return c.Status(services.StatusForError(err)).JSON(fiber.Map{
				"error": "failed to get proof",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"proof":   proof,
			"mission": mission,
		})
	})
}
