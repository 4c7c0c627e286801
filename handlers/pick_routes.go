package handlers

import (
	"log"

	"prediction-pool-system/middleware"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPickRoutes(app *fiber.App, picks *services.PickService, pools *services.PoolService, orchestrator *services.RankingOrchestrator) {
	// 🔓 Public catalog reads
	app.Get("/categories", func(c *fiber.Ctx) error {
		categories, err := picks.GetAllCategories()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(categories)
	})

	app.Get("/categories/nominated", func(c *fiber.Ctx) error {
		categories, err := picks.GetCategoriesWithNominees()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(categories)
	})

	app.Get("/categories/:id/nominees", func(c *fiber.Ctx) error {
		nominees, err := picks.GetCategoryNominees(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(nominees)
	})

	// 🔐 Authenticated
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Individual picks live in the global pool.
	secured.Get("/picks", func(c *fiber.Ctx) error {
		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		list, err := picks.GetUserPicks(global.ID, middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"picks": list})
	})

	secured.Get("/picks/completed", func(c *fiber.Ctx) error {
		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		done, err := picks.HasCompletedAllPicks(middleware.UserID(c), global.ID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"completed": done})
	})

	// Bulk submission of individual picks. The user is enrolled in the
	// global pool first so the completion stamp lands on their row.
	secured.Post("/picks", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		var inputs []services.PickInput
		if err := c.BodyParser(&inputs); err != nil {
			var single services.PickInput
			if err := c.BodyParser(&single); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
			}
			inputs = []services.PickInput{single}
		}
		if len(inputs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one pick is required"})
		}

		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}

		done, err := picks.HasCompletedAllPicks(userID, global.ID)
		if err != nil {
			return fail(c, err)
		}
		if done {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "all picks already submitted; edit existing picks instead",
			})
		}

		if _, err := pools.AddParticipant(global.ID, userID); err != nil {
			return fail(c, err)
		}

		saved, err := picks.UpsertMany(userID, global.ID, inputs)
		if err != nil {
			return fail(c, err)
		}

		// Scoring is best-effort: the picks were saved either way.
		if err := orchestrator.AfterPickChange(userID); err != nil {
			log.Printf("ranking recompute after pick submission failed: %v", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"picks": saved})
	})

	// Edit one individual pick. Group copies stay frozen.
	secured.Patch("/picks", func(c *fiber.Ctx) error {
		type Req struct {
			CategoryID string `json:"category_id"`
			NomineeID  string `json:"nominee_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		userID := middleware.UserID(c)

		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		pick, err := picks.UpsertPick(userID, global.ID, req.CategoryID, req.NomineeID)
		if err != nil {
			return fail(c, err)
		}

		if err := orchestrator.AfterPickChange(userID); err != nil {
			log.Printf("ranking recompute after pick edit failed: %v", err)
		}
		return c.JSON(fiber.Map{"pick": pick})
	})

	secured.Get("/pools/:id/picks", func(c *fiber.Ctx) error {
		list, err := picks.GetUserPicks(c.Params("id"), middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"picks": list})
	})

	secured.Get("/pools/:id/picks/all", func(c *fiber.Ctx) error {
		poolID := c.Params("id")
		ok, err := pools.IsParticipant(poolID, middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not a participant of this pool"})
		}
		list, err := picks.GetPoolPicks(poolID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"picks": list})
	})
}
