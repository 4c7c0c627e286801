package handlers

import (
	"strconv"

	"prediction-pool-system/middleware"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, ranking *services.RankingService, pools *services.PoolService, orchestrator *services.RankingOrchestrator) {
	// 🔓 Public leaderboards
	app.Get("/rankings/global", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		entries, err := ranking.GetTopRanking(global.ID, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"ranking": entries})
	})

	app.Get("/pools/:id/ranking", func(c *fiber.Ctx) error {
		entries, err := ranking.GetRanking(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"ranking": entries})
	})

	app.Get("/pools/:id/ranking/stats", func(c *fiber.Ctx) error {
		stats, err := ranking.GetRankingStats(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(stats)
	})

	// A group's standing in the global ranking, derived from its #1.
	app.Get("/pools/:id/ranking/global-position", func(c *fiber.Ctx) error {
		standing, err := orchestrator.GroupPositionInGlobal(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(standing)
	})

	// 🔐 Authenticated
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/rankings/global/me", func(c *fiber.Ctx) error {
		global, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		entry, err := ranking.GetUserPosition(global.ID, middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entry)
	})

	secured.Get("/pools/:id/ranking/me", func(c *fiber.Ctx) error {
		entry, err := ranking.GetUserPosition(c.Params("id"), middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entry)
	})

	// Maintenance triggers. Recomputation is synchronous and awaited.
	secured.Post("/rankings/recalculate", func(c *fiber.Ctx) error {
		if err := orchestrator.RecalculateAll(); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "all rankings recalculated"})
	})

	secured.Post("/pools/:id/ranking/recalculate", func(c *fiber.Ctx) error {
		if err := orchestrator.RecalculateForPool(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "ranking recalculated"})
	})
}
