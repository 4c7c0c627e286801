package handlers

import (
	"prediction-pool-system/middleware"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupResultsRoutes(app *fiber.App, results *services.ResultsService) {
	app.Get("/results/winners", func(c *fiber.Ctx) error {
		winners, err := results.GetWinners()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"winners": winners})
	})

	// Winner entry is gated by the gateway's admin routing; the service
	// itself only enforces the once-per-category rule.
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/categories/:id/winner", func(c *fiber.Ctx) error {
		type Req struct {
			NomineeID string `json:"nominee_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.NomineeID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nominee_id is required"})
		}
		winner, err := results.SetCategoryWinner(c.Params("id"), req.NomineeID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"winner": winner})
	})
}
