package handlers

import (
	"strconv"

	"prediction-pool-system/middleware"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, users *services.UserService) {
	// Upsert happens right after signup upstream, before the gateway
	// can attach a user context, so it stays outside the secured group.
	app.Post("/users/upsert", func(c *fiber.Ctx) error {
		var input services.UserInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		user, err := users.UpsertUser(input)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/users/me", func(c *fiber.Ctx) error {
		user, err := users.GetUserByID(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})

	secured.Get("/users/search", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		list, err := users.SearchUsers(c.Query("q"), limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}
